package deploycmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/deploy"
)

type fakeDeployService struct {
	lastPageID uuid.UUID
	result     *deploy.Result
	err        error
}

func (f *fakeDeployService) Deploy(_ context.Context, pageID uuid.UUID) (*deploy.Result, error) {
	f.lastPageID = pageID
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestPublishPageCommandValidate(t *testing.T) {
	if err := (PublishPageCommand{}).Validate(); err == nil {
		t.Fatal("expected validation error for missing page id")
	}
	if err := (PublishPageCommand{PageID: uuid.New()}).Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
}

func TestPublishPageHandlerExecutes(t *testing.T) {
	pageID := uuid.New()
	service := &fakeDeployService{
		result: &deploy.Result{
			URL:      "https://spring-launch.pages.example.app",
			SiteID:   "site-1",
			Strategy: deploy.StrategyArchive,
		},
	}

	handler := NewPublishPageHandler(service, nil)
	if err := handler.Execute(context.Background(), PublishPageCommand{PageID: pageID}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if service.lastPageID != pageID {
		t.Errorf("expected service invoked with %s, got %s", pageID, service.lastPageID)
	}
}

func TestPublishPageHandlerRejectsInvalidMessage(t *testing.T) {
	service := &fakeDeployService{}
	handler := NewPublishPageHandler(service, nil)

	err := handler.Execute(context.Background(), PublishPageCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if service.lastPageID != uuid.Nil {
		t.Error("expected the service untouched for invalid messages")
	}
}

func TestPublishPageHandlerWrapsFailure(t *testing.T) {
	service := &fakeDeployService{err: errors.New("host unavailable")}
	handler := NewPublishPageHandler(service, nil)

	err := handler.Execute(context.Background(), PublishPageCommand{PageID: uuid.New()})
	if err == nil {
		t.Fatal("expected execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}
