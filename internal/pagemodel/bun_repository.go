package pagemodel

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunPageModelRepository bundles the bun-backed repositories for pages,
// components, and variations.
type BunPageModelRepository struct {
	db         *bun.DB
	pages      repository.Repository[*PageDefinition]
	components repository.Repository[*ComponentInstance]
	variations repository.Repository[*ComponentVariation]
}

// NewBunPageModelRepository constructs the repository bundle without caching.
func NewBunPageModelRepository(db *bun.DB) *BunPageModelRepository {
	return NewBunPageModelRepositoryWithCache(db, nil, nil)
}

// NewBunPageModelRepositoryWithCache constructs the bundle backed by bun with optional caching.
func NewBunPageModelRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageModelRepository {
	return &BunPageModelRepository{
		db:         db,
		pages:      wrapWithCache(NewPageDefinitionRepository(db), cacheService, keySerializer),
		components: wrapWithCache(NewComponentInstanceRepository(db), cacheService, keySerializer),
		variations: wrapWithCache(NewComponentVariationRepository(db), cacheService, keySerializer),
	}
}

// Pages exposes the page repository contract.
func (r *BunPageModelRepository) Pages() PageRepository { return &bunPageRepository{r} }

// Components exposes the component repository contract.
func (r *BunPageModelRepository) Components() ComponentRepository {
	return &bunComponentRepository{r}
}

// Variations exposes the variation repository contract.
func (r *BunPageModelRepository) Variations() VariationRepository {
	return &bunVariationRepository{r}
}

type bunPageRepository struct {
	bundle *BunPageModelRepository
}

func (r *bunPageRepository) Create(ctx context.Context, record *PageDefinition) (*PageDefinition, error) {
	created, err := r.bundle.pages.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "page", record.Slug)
	}
	return created, nil
}

func (r *bunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*PageDefinition, error) {
	record, err := r.bundle.pages.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page", id.String())
	}
	return record, nil
}

func (r *bunPageRepository) GetBySlug(ctx context.Context, slug string) (*PageDefinition, error) {
	records, _, err := r.bundle.pages.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", slug)
	}
	if len(records) == 0 {
		return nil, &PageNotFoundError{Key: slug}
	}
	return records[0], nil
}

func (r *bunPageRepository) List(ctx context.Context) ([]*PageDefinition, error) {
	records, _, err := r.bundle.pages.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "page", "list")
	}
	return records, nil
}

func (r *bunPageRepository) Update(ctx context.Context, record *PageDefinition) (*PageDefinition, error) {
	updated, err := r.bundle.pages.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"title",
			"theme",
			"seo",
			"tracking",
			"status",
			"site_id",
			"deployed_url",
			"deployed_at",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", record.ID.String())
	}
	return updated, nil
}

type bunComponentRepository struct {
	bundle *BunPageModelRepository
}

func (r *bunComponentRepository) Create(ctx context.Context, record *ComponentInstance) (*ComponentInstance, error) {
	created, err := r.bundle.components.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "component", record.ID.String())
	}
	return created, nil
}

func (r *bunComponentRepository) ListByPage(ctx context.Context, pageID uuid.UUID) ([]*ComponentInstance, error) {
	records, _, err := r.bundle.components.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.page_id = ?", pageID).
				Order("order_index ASC").
				Order("created_at ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "component", pageID.String())
	}
	return records, nil
}

type bunVariationRepository struct {
	bundle *BunPageModelRepository
}

func (r *bunVariationRepository) Upsert(ctx context.Context, record *ComponentVariation) (*ComponentVariation, error) {
	existing, err := r.bundle.variations.GetByID(ctx, record.ID.String())
	if err == nil && existing != nil {
		updated, err := r.bundle.variations.Update(ctx, record,
			repository.UpdateByID(record.ID.String()),
			repository.UpdateColumns(
				"template",
				"required_fields",
				"required_images",
				"default_visibility",
				"updated_at",
			),
		)
		if err != nil {
			return nil, mapRepositoryError(err, "variation", record.ID.String())
		}
		return updated, nil
	}

	created, err := r.bundle.variations.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "variation", record.ID.String())
	}
	return created, nil
}

func (r *bunVariationRepository) GetByID(ctx context.Context, id uuid.UUID) (*ComponentVariation, error) {
	record, err := r.bundle.variations.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapVariationError(err, id.String())
	}
	return record, nil
}

func (r *bunVariationRepository) GetByKey(ctx context.Context, componentType string, variation int) (*ComponentVariation, error) {
	records, _, err := r.bundle.variations.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.type = ?", componentType).
				Where("?TableAlias.variation = ?", variation)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapVariationError(err, variationKey(componentType, variation))
	}
	if len(records) == 0 {
		return nil, &VariationNotFoundError{Key: variationKey(componentType, variation)}
	}
	return records[0], nil
}

func (r *bunVariationRepository) List(ctx context.Context) ([]*ComponentVariation, error) {
	records, _, err := r.bundle.variations.List(ctx)
	if err != nil {
		return nil, mapVariationError(err, "list")
	}
	return records, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &PageNotFoundError{Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func mapVariationError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &VariationNotFoundError{Key: key}
	}
	return fmt.Errorf("variation repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
