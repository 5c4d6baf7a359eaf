package pagemodel

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PageRepository persists page definitions.
type PageRepository interface {
	Create(ctx context.Context, record *PageDefinition) (*PageDefinition, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PageDefinition, error)
	GetBySlug(ctx context.Context, slug string) (*PageDefinition, error)
	List(ctx context.Context) ([]*PageDefinition, error)
	Update(ctx context.Context, record *PageDefinition) (*PageDefinition, error)
}

// ComponentRepository persists component instances.
type ComponentRepository interface {
	Create(ctx context.Context, record *ComponentInstance) (*ComponentInstance, error)
	ListByPage(ctx context.Context, pageID uuid.UUID) ([]*ComponentInstance, error)
}

// VariationRepository persists immutable component variation templates.
type VariationRepository interface {
	Upsert(ctx context.Context, record *ComponentVariation) (*ComponentVariation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ComponentVariation, error)
	GetByKey(ctx context.Context, componentType string, variation int) (*ComponentVariation, error)
	List(ctx context.Context) ([]*ComponentVariation, error)
}

// NewPageDefinitionRepository builds the go-repository-bun handlers for page definitions.
func NewPageDefinitionRepository(db *bun.DB) repository.Repository[*PageDefinition] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*PageDefinition]{
		NewRecord: func() *PageDefinition { return &PageDefinition{} },
		GetID: func(p *PageDefinition) uuid.UUID {
			return p.ID
		},
		SetID: func(p *PageDefinition, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *PageDefinition) string {
			return p.Slug
		},
	})
}

// NewComponentInstanceRepository builds the go-repository-bun handlers for component instances.
func NewComponentInstanceRepository(db *bun.DB) repository.Repository[*ComponentInstance] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ComponentInstance]{
		NewRecord: func() *ComponentInstance { return &ComponentInstance{} },
		GetID: func(c *ComponentInstance) uuid.UUID {
			return c.ID
		},
		SetID: func(c *ComponentInstance, id uuid.UUID) {
			c.ID = id
		},
	})
}

// NewComponentVariationRepository builds the go-repository-bun handlers for variations.
func NewComponentVariationRepository(db *bun.DB) repository.Repository[*ComponentVariation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ComponentVariation]{
		NewRecord: func() *ComponentVariation { return &ComponentVariation{} },
		GetID: func(v *ComponentVariation) uuid.UUID {
			return v.ID
		},
		SetID: func(v *ComponentVariation, id uuid.UUID) {
			v.ID = id
		},
	})
}
