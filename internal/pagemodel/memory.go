package pagemodel

import (
	"context"
	"maps"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// NewMemoryPageRepository constructs an "in memory" page repository.
func NewMemoryPageRepository() PageRepository {
	return &memoryPageRepository{
		byID:   make(map[uuid.UUID]*PageDefinition),
		bySlug: make(map[string]uuid.UUID),
	}
}

type memoryPageRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*PageDefinition
	bySlug map[string]uuid.UUID
}

func (m *memoryPageRepository) Create(_ context.Context, record *PageDefinition) (*PageDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := clonePage(record)
	m.byID[cloned.ID] = cloned
	if cloned.Slug != "" {
		m.bySlug[cloned.Slug] = cloned.ID
	}
	return clonePage(cloned), nil
}

func (m *memoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*PageDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &PageNotFoundError{Key: id.String()}
	}
	return clonePage(record), nil
}

func (m *memoryPageRepository) GetBySlug(_ context.Context, slug string) (*PageDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, &PageNotFoundError{Key: slug}
	}
	return clonePage(m.byID[id]), nil
}

func (m *memoryPageRepository) List(_ context.Context) ([]*PageDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pages := make([]*PageDefinition, 0, len(m.byID))
	for _, page := range m.byID {
		pages = append(pages, clonePage(page))
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Slug < pages[j].Slug })
	return pages, nil
}

func (m *memoryPageRepository) Update(_ context.Context, record *PageDefinition) (*PageDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[record.ID]; !ok {
		return nil, &PageNotFoundError{Key: record.ID.String()}
	}
	cloned := clonePage(record)
	m.byID[cloned.ID] = cloned
	if cloned.Slug != "" {
		m.bySlug[cloned.Slug] = cloned.ID
	}
	return clonePage(cloned), nil
}

// NewMemoryComponentRepository constructs an "in memory" component repository.
func NewMemoryComponentRepository() ComponentRepository {
	return &memoryComponentRepository{
		byID:   make(map[uuid.UUID]*ComponentInstance),
		byPage: make(map[uuid.UUID][]uuid.UUID),
	}
}

type memoryComponentRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*ComponentInstance
	byPage map[uuid.UUID][]uuid.UUID
}

func (m *memoryComponentRepository) Create(_ context.Context, record *ComponentInstance) (*ComponentInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneComponent(record)
	m.byID[cloned.ID] = cloned
	m.byPage[cloned.PageID] = append(m.byPage[cloned.PageID], cloned.ID)
	return cloneComponent(cloned), nil
}

func (m *memoryComponentRepository) ListByPage(_ context.Context, pageID uuid.UUID) ([]*ComponentInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byPage[pageID]
	components := make([]*ComponentInstance, 0, len(ids))
	for _, id := range ids {
		if record, ok := m.byID[id]; ok {
			components = append(components, cloneComponent(record))
		}
	}
	return components, nil
}

// NewMemoryVariationRepository constructs an "in memory" variation repository.
func NewMemoryVariationRepository() VariationRepository {
	return &memoryVariationRepository{
		byID:  make(map[uuid.UUID]*ComponentVariation),
		byKey: make(map[string]uuid.UUID),
	}
}

type memoryVariationRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*ComponentVariation
	byKey map[string]uuid.UUID
}

func variationKey(componentType string, variation int) string {
	return strings.ToLower(strings.TrimSpace(componentType)) + "::" + strconv.Itoa(variation)
}

func (m *memoryVariationRepository) Upsert(_ context.Context, record *ComponentVariation) (*ComponentVariation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneVariation(record)
	m.byID[cloned.ID] = cloned
	m.byKey[variationKey(cloned.Type, cloned.Variation)] = cloned.ID
	return cloneVariation(cloned), nil
}

func (m *memoryVariationRepository) GetByID(_ context.Context, id uuid.UUID) (*ComponentVariation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &VariationNotFoundError{Key: id.String()}
	}
	return cloneVariation(record), nil
}

func (m *memoryVariationRepository) GetByKey(_ context.Context, componentType string, variation int) (*ComponentVariation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := variationKey(componentType, variation)
	id, ok := m.byKey[key]
	if !ok {
		return nil, &VariationNotFoundError{Key: key}
	}
	return cloneVariation(m.byID[id]), nil
}

func (m *memoryVariationRepository) List(_ context.Context) ([]*ComponentVariation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	variations := make([]*ComponentVariation, 0, len(m.byID))
	for _, record := range m.byID {
		variations = append(variations, cloneVariation(record))
	}
	sort.Slice(variations, func(i, j int) bool {
		if variations[i].Type == variations[j].Type {
			return variations[i].Variation < variations[j].Variation
		}
		return variations[i].Type < variations[j].Type
	})
	return variations, nil
}

func clonePage(record *PageDefinition) *PageDefinition {
	if record == nil {
		return nil
	}
	cloned := *record
	cloned.SEO.Keywords = append([]string(nil), record.SEO.Keywords...)
	if record.SiteID != nil {
		siteID := *record.SiteID
		cloned.SiteID = &siteID
	}
	if record.DeployedURL != nil {
		url := *record.DeployedURL
		cloned.DeployedURL = &url
	}
	if record.DeployedAt != nil {
		at := *record.DeployedAt
		cloned.DeployedAt = &at
	}
	if len(record.Components) > 0 {
		cloned.Components = make([]*ComponentInstance, len(record.Components))
		for i, component := range record.Components {
			cloned.Components[i] = cloneComponent(component)
		}
	}
	return &cloned
}

func cloneComponent(record *ComponentInstance) *ComponentInstance {
	if record == nil {
		return nil
	}
	cloned := *record
	if record.Content != nil {
		cloned.Content = make(map[string]any, len(record.Content))
		maps.Copy(cloned.Content, record.Content)
	}
	if record.Styles != nil {
		cloned.Styles = make(map[string]string, len(record.Styles))
		maps.Copy(cloned.Styles, record.Styles)
	}
	if record.Visibility != nil {
		cloned.Visibility = make(map[string]bool, len(record.Visibility))
		maps.Copy(cloned.Visibility, record.Visibility)
	}
	if record.MediaURLs != nil {
		cloned.MediaURLs = make(map[string]string, len(record.MediaURLs))
		maps.Copy(cloned.MediaURLs, record.MediaURLs)
	}
	if record.CustomActions != nil {
		cloned.CustomActions = make(map[string]any, len(record.CustomActions))
		maps.Copy(cloned.CustomActions, record.CustomActions)
	}
	cloned.Variation = cloneVariation(record.Variation)
	return &cloned
}

func cloneVariation(record *ComponentVariation) *ComponentVariation {
	if record == nil {
		return nil
	}
	cloned := *record
	cloned.RequiredFields = append([]string(nil), record.RequiredFields...)
	if record.DefaultVisibility != nil {
		cloned.DefaultVisibility = make(map[string]bool, len(record.DefaultVisibility))
		maps.Copy(cloned.DefaultVisibility, record.DefaultVisibility)
	}
	return &cloned
}
