package deploycmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/internal/deploy"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const publishPageMessageType = "sitebuilder.deploy.publish"

// PublishPageCommand requests a publish of a page through the deployment
// pipeline.
type PublishPageCommand struct {
	PageID uuid.UUID `json:"page_id"`
}

// Type implements command.Message.
func (PublishPageCommand) Type() string { return publishPageMessageType }

// Validate ensures the command carries a page identifier before reaching
// handlers.
func (m PublishPageCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("sitebuilder.deploy.publish.page_id_required", "page_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishPageHandler drives the deployment orchestrator from dispatched
// publish messages.
type PublishPageHandler struct {
	inner *commands.Handler[PublishPageCommand]
}

// NewPublishPageHandler constructs a handler wired to the deployment
// service.
func NewPublishPageHandler(service deploy.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishPageCommand]) *PublishPageHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg PublishPageCommand) error {
		result, err := service.Deploy(ctx, msg.PageID)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"page_id":  msg.PageID,
			"site_id":  result.SiteID,
			"url":      result.URL,
			"strategy": string(result.Strategy),
		}).Info("deploy.publish.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[PublishPageCommand]{
		commands.WithLogger[PublishPageCommand](baseLogger),
		commands.WithOperation[PublishPageCommand]("deploy.publish"),
		commands.WithMessageFields(func(msg PublishPageCommand) map[string]any {
			if msg.PageID == uuid.Nil {
				return nil
			}
			return map[string]any{"page_id": msg.PageID}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[PublishPageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishPageHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishPageCommand].Execute.
func (h *PublishPageHandler) Execute(ctx context.Context, msg PublishPageCommand) error {
	return h.inner.Execute(ctx, msg)
}
