package deploy

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewDeploymentRecordRepository wires the bun repository for attempt records.
func NewDeploymentRecordRepository(db *bun.DB) repository.Repository[*DeploymentRecord] {
	handlers := repository.ModelHandlers[*DeploymentRecord]{
		NewRecord: func() *DeploymentRecord { return &DeploymentRecord{} },
		GetID: func(record *DeploymentRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *DeploymentRecord, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(record *DeploymentRecord) string { return record.ID.String() },
	}
	return repository.MustNewRepository[*DeploymentRecord](db, handlers)
}

// NewBunRecordRepository adapts the bun repository to the RecordRepository
// contract used by the orchestrator.
func NewBunRecordRepository(db *bun.DB) RecordRepository {
	return &bunRecordRepository{records: NewDeploymentRecordRepository(db)}
}

type bunRecordRepository struct {
	records repository.Repository[*DeploymentRecord]
}

func (r *bunRecordRepository) Create(ctx context.Context, record *DeploymentRecord) (*DeploymentRecord, error) {
	created, err := r.records.Create(ctx, record)
	if err != nil {
		return nil, mapRecordError(err, record.ID.String())
	}
	return created, nil
}

func (r *bunRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*DeploymentRecord, error) {
	record, err := r.records.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRecordError(err, id.String())
	}
	return record, nil
}

func (r *bunRecordRepository) Transition(ctx context.Context, id uuid.UUID, state AttemptState, mutate func(*DeploymentRecord)) (*DeploymentRecord, error) {
	record, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !record.State.CanTransition(state) {
		return nil, &InvalidTransitionError{From: record.State, To: state}
	}

	record.State = state
	if mutate != nil {
		mutate(record)
	}

	updated, err := r.records.Update(ctx, record,
		repository.UpdateByID(id.String()),
		repository.UpdateColumns(
			"site_id",
			"state",
			"strategy",
			"url",
			"error_message",
			"attempted_at",
		),
	)
	if err != nil {
		return nil, mapRecordError(err, id.String())
	}
	return updated, nil
}

func (r *bunRecordRepository) ListByPage(ctx context.Context, pageID uuid.UUID) ([]*DeploymentRecord, error) {
	records, _, err := r.records.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.page_id = ?", pageID).
				Order("created_at ASC")
		}),
	)
	if err != nil {
		return nil, mapRecordError(err, pageID.String())
	}
	return records, nil
}

func mapRecordError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &RecordNotFoundError{Key: key}
	}
	return fmt.Errorf("deployment record repository error: %w", err)
}
