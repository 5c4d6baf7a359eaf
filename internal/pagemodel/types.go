package pagemodel

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status enumerates the page definition lifecycle.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPublishing Status = "publishing"
	StatusPublished  Status = "published"
	StatusError      Status = "error"
)

// IsValid reports whether the status is one of the persisted lifecycle values.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublishing, StatusPublished, StatusError:
		return true
	default:
		return false
	}
}

// GlobalTheme is the page-wide styling value object. It carries no identity;
// two themes with equal fields are interchangeable.
type GlobalTheme struct {
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	BackgroundColor string `json:"background_color"`
	Font            string `json:"font"`
	Direction       string `json:"direction"`
	Language        string `json:"language"`
}

// SEOConfig captures head metadata for the generated document.
type SEOConfig struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	OGImageURL  string   `json:"og_image_url,omitempty"`
}

// TrackingConfig captures third-party analytics identifiers. Format validation
// happens at assembly time so a bad id never blocks page editing.
type TrackingConfig struct {
	FacebookPixelID   string `json:"facebook_pixel_id,omitempty"`
	GoogleAnalyticsID string `json:"google_analytics_id,omitempty"`
	ClarityID         string `json:"clarity_id,omitempty"`
}

// DeploymentInfo is the post-deploy write-back payload.
type DeploymentInfo struct {
	SiteID     string
	URL        string
	DeployedAt time.Time
}

// PageModel aggregates a page definition with its ordered components and
// their resolved variation templates. It is the unit handed to the injection
// engine and assembler.
type PageModel struct {
	Page       *PageDefinition
	Components []*ComponentInstance
}

// PageNotFoundError indicates a missing page definition.
type PageNotFoundError struct {
	Key string
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page not found: %s", e.Key)
}

// VariationNotFoundError indicates a missing component variation template.
type VariationNotFoundError struct {
	Key string
}

func (e *VariationNotFoundError) Error() string {
	return fmt.Sprintf("component variation not found: %s", e.Key)
}

// CreatePageInput captures the fields required to register a page definition.
type CreatePageInput struct {
	Slug     string
	Title    string
	Theme    GlobalTheme
	SEO      SEOConfig
	Tracking TrackingConfig
}

// AddComponentInput captures the fields required to attach a component
// instance to a page.
type AddComponentInput struct {
	PageID        uuid.UUID
	OrderIndex    int
	Type          string
	Variation     int
	Content       map[string]any
	Styles        map[string]string
	Visibility    map[string]bool
	MediaURLs     map[string]string
	CustomActions map[string]any
}

// RegisterVariationInput describes an immutable component template.
type RegisterVariationInput struct {
	Type              string
	Variation         int
	Template          string
	RequiredFields    []string
	RequiredImages    int
	DefaultVisibility map[string]bool
}
