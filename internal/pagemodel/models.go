package pagemodel

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PageDefinition is the page-level record: theme, SEO, tracking, lifecycle
// status, and the remote site identity written back after a deploy.
type PageDefinition struct {
	bun.BaseModel `bun:"table:page_definitions,alias:pd"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Slug        string         `bun:"slug,notnull" json:"slug"`
	Title       string         `bun:"title,notnull" json:"title"`
	Theme       GlobalTheme    `bun:"theme,type:jsonb,notnull" json:"theme"`
	SEO         SEOConfig      `bun:"seo,type:jsonb" json:"seo"`
	Tracking    TrackingConfig `bun:"tracking,type:jsonb" json:"tracking"`
	Status      Status         `bun:"status,notnull,default:'draft'" json:"status"`
	SiteID      *string        `bun:"site_id" json:"site_id,omitempty"`
	DeployedURL *string        `bun:"deployed_url" json:"deployed_url,omitempty"`
	DeployedAt  *time.Time     `bun:"deployed_at,nullzero" json:"deployed_at,omitempty"`
	DeletedAt   *time.Time     `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Components []*ComponentInstance `bun:"rel:has-many,join:id=page_id" json:"components,omitempty"`
}

// ComponentInstance is an ordered, content-filled usage of a variation
// template on a page.
type ComponentInstance struct {
	bun.BaseModel `bun:"table:component_instances,alias:ci"`

	ID            uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	PageID        uuid.UUID         `bun:"page_id,notnull,type:uuid" json:"page_id"`
	OrderIndex    int               `bun:"order_index,notnull,default:0" json:"order_index"`
	VariationID   uuid.UUID         `bun:"variation_id,notnull,type:uuid" json:"variation_id"`
	Content       map[string]any    `bun:"content,type:jsonb,notnull,default:'{}'" json:"content"`
	Styles        map[string]string `bun:"styles,type:jsonb" json:"styles,omitempty"`
	Visibility    map[string]bool   `bun:"visibility,type:jsonb" json:"visibility,omitempty"`
	MediaURLs     map[string]string `bun:"media_urls,type:jsonb" json:"media_urls,omitempty"`
	CustomActions map[string]any    `bun:"custom_actions,type:jsonb" json:"custom_actions,omitempty"`
	DeletedAt     *time.Time        `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt     time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Variation *ComponentVariation `bun:"rel:belongs-to,join:variation_id=id" json:"variation,omitempty"`
}

// ComponentVariation is an immutable template identified by (type, variation
// number). Rows are upserted by deterministic id so re-registration is a no-op.
type ComponentVariation struct {
	bun.BaseModel `bun:"table:component_variations,alias:cv"`

	ID                uuid.UUID       `bun:",pk,type:uuid" json:"id"`
	Type              string          `bun:"type,notnull" json:"type"`
	Variation         int             `bun:"variation,notnull" json:"variation"`
	Template          string          `bun:"template,notnull" json:"template"`
	RequiredFields    []string        `bun:"required_fields,type:jsonb" json:"required_fields,omitempty"`
	RequiredImages    int             `bun:"required_images,notnull,default:0" json:"required_images"`
	DefaultVisibility map[string]bool `bun:"default_visibility,type:jsonb" json:"default_visibility,omitempty"`
	CreatedAt         time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time       `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
