package pagemodel

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-sitebuilder/internal/identity"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Service exposes the page model operations consumed by the deployment
// pipeline and host applications.
type Service interface {
	CreatePage(ctx context.Context, input CreatePageInput) (*PageDefinition, error)
	AddComponent(ctx context.Context, input AddComponentInput) (*ComponentInstance, error)
	RegisterVariation(ctx context.Context, input RegisterVariationInput) (*ComponentVariation, error)

	GetPageWithComponents(ctx context.Context, pageID uuid.UUID) (*PageModel, error)
	PersistDeploymentInfo(ctx context.Context, pageID uuid.UUID, info DeploymentInfo) error
	UpdatePageStatus(ctx context.Context, pageID uuid.UUID, status Status) error
}

// ServiceOption customises service construction.
type ServiceOption func(*service)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger wires the module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs the page model service.
func NewService(pages PageRepository, components ComponentRepository, variations VariationRepository, opts ...ServiceOption) Service {
	svc := &service{
		pages:      pages,
		components: components,
		variations: variations,
		now:        time.Now,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type service struct {
	pages      PageRepository
	components ComponentRepository
	variations VariationRepository
	now        func() time.Time
	logger     interfaces.Logger
}

func (s *service) CreatePage(ctx context.Context, input CreatePageInput) (*PageDefinition, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	normalizedSlug, err := slug.Normalize(input.Slug)
	if err != nil {
		normalizedSlug = strings.ToLower(strings.TrimSpace(input.Slug))
	}

	theme := input.Theme
	if strings.TrimSpace(theme.Direction) == "" {
		theme.Direction = "ltr"
	}
	if strings.TrimSpace(theme.Language) == "" {
		theme.Language = "en"
	}

	now := s.now()
	record := &PageDefinition{
		ID:        uuid.New(),
		Slug:      normalizedSlug,
		Title:     strings.TrimSpace(input.Title),
		Theme:     theme,
		SEO:       input.SEO,
		Tracking:  input.Tracking,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.pages.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("page created", "page_id", created.ID, "slug", created.Slug)
	return created, nil
}

func (s *service) AddComponent(ctx context.Context, input AddComponentInput) (*ComponentInstance, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.pages.GetByID(ctx, input.PageID); err != nil {
		return nil, err
	}

	variation, err := s.variations.GetByKey(ctx, input.Type, input.Variation)
	if err != nil {
		return nil, err
	}

	if err := validateComponentContent(variation, input.Content); err != nil {
		return nil, err
	}

	now := s.now()
	record := &ComponentInstance{
		ID:            uuid.New(),
		PageID:        input.PageID,
		OrderIndex:    input.OrderIndex,
		VariationID:   variation.ID,
		Content:       input.Content,
		Styles:        input.Styles,
		Visibility:    seedVisibility(variation.DefaultVisibility, input.Visibility),
		MediaURLs:     input.MediaURLs,
		CustomActions: input.CustomActions,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.components.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	created.Variation = variation
	return created, nil
}

func (s *service) RegisterVariation(ctx context.Context, input RegisterVariationInput) (*ComponentVariation, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	componentType := strings.ToLower(strings.TrimSpace(input.Type))
	now := s.now()
	record := &ComponentVariation{
		ID:                identity.VariationUUID(componentType, input.Variation),
		Type:              componentType,
		Variation:         input.Variation,
		Template:          input.Template,
		RequiredFields:    input.RequiredFields,
		RequiredImages:    input.RequiredImages,
		DefaultVisibility: input.DefaultVisibility,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return s.variations.Upsert(ctx, record)
}

func (s *service) GetPageWithComponents(ctx context.Context, pageID uuid.UUID) (*PageModel, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return nil, err
	}

	components, err := s.components.ListByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	for _, component := range components {
		if component.Variation != nil {
			continue
		}
		variation, err := s.variations.GetByID(ctx, component.VariationID)
		if err != nil {
			return nil, err
		}
		component.Variation = variation
	}

	// Ascending order index; ties keep repository order.
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].OrderIndex < components[j].OrderIndex
	})

	return &PageModel{Page: page, Components: components}, nil
}

func (s *service) PersistDeploymentInfo(ctx context.Context, pageID uuid.UUID, info DeploymentInfo) error {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return err
	}

	siteID := info.SiteID
	url := info.URL
	deployedAt := info.DeployedAt
	if deployedAt.IsZero() {
		deployedAt = s.now()
	}

	page.SiteID = &siteID
	page.DeployedURL = &url
	page.DeployedAt = &deployedAt
	page.UpdatedAt = s.now()

	if _, err := s.pages.Update(ctx, page); err != nil {
		return err
	}
	s.logger.Info("deployment info persisted", "page_id", pageID, "site_id", siteID)
	return nil
}

func (s *service) UpdatePageStatus(ctx context.Context, pageID uuid.UUID, status Status) error {
	if !status.IsValid() {
		return newFieldError("status", "pagemodel.status_invalid", "status must be one of draft, publishing, published, error")
	}

	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return err
	}

	page.Status = status
	page.UpdatedAt = s.now()
	_, err = s.pages.Update(ctx, page)
	return err
}

// seedVisibility fills in the variation's default toggles for keys the
// caller did not set. Explicit input always wins.
func seedVisibility(defaults, input map[string]bool) map[string]bool {
	if len(defaults) == 0 {
		return input
	}
	merged := make(map[string]bool, len(defaults)+len(input))
	for key, visible := range defaults {
		merged[key] = visible
	}
	for key, visible := range input {
		merged[key] = visible
	}
	return merged
}
