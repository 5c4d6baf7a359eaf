package pagemodel

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	schemas "github.com/goliatone/go-sitebuilder/internal/validation"
	"github.com/google/uuid"
)

// Validate ensures a page definition request carries the required fields.
func (input CreatePageInput) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(input.Slug) == "" {
		errs["slug"] = validation.NewError("pagemodel.slug_required", "slug is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		errs["title"] = validation.NewError("pagemodel.title_required", "title is required")
	}
	if direction := strings.TrimSpace(input.Theme.Direction); direction != "" && direction != "ltr" && direction != "rtl" {
		errs["theme.direction"] = validation.NewError("pagemodel.direction_invalid", "theme direction must be ltr or rtl")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate ensures a component request is structurally sound.
func (input AddComponentInput) Validate() error {
	errs := validation.Errors{}
	if input.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("pagemodel.page_id_required", "page_id is required")
	}
	if strings.TrimSpace(input.Type) == "" {
		errs["type"] = validation.NewError("pagemodel.type_required", "component type is required")
	}
	if input.Variation <= 0 {
		errs["variation"] = validation.NewError("pagemodel.variation_invalid", "variation number must be greater than zero")
	}
	if input.OrderIndex < 0 {
		errs["order_index"] = validation.NewError("pagemodel.order_index_invalid", "order_index cannot be negative")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate ensures a variation registration is complete.
func (input RegisterVariationInput) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(input.Type) == "" {
		errs["type"] = validation.NewError("pagemodel.type_required", "component type is required")
	}
	if input.Variation <= 0 {
		errs["variation"] = validation.NewError("pagemodel.variation_invalid", "variation number must be greater than zero")
	}
	if strings.TrimSpace(input.Template) == "" {
		errs["template"] = validation.NewError("pagemodel.template_required", "template source is required")
	}
	if input.RequiredImages < 0 {
		errs["required_images"] = validation.NewError("pagemodel.required_images_invalid", "required image count cannot be negative")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidatePageModel runs the pre-deploy checks that must fail before any
// network call: at least one component, unique order indexes, a known theme
// direction, and a valid status.
func ValidatePageModel(model *PageModel) error {
	errs := validation.Errors{}
	if model == nil || model.Page == nil {
		return validation.Errors{"page": validation.NewError("pagemodel.page_required", "page definition is required")}
	}
	if len(model.Components) == 0 {
		errs["components"] = validation.NewError("pagemodel.components_required", "page has no components to publish")
	}

	seen := make(map[int]struct{}, len(model.Components))
	for _, component := range model.Components {
		if component.OrderIndex < 0 {
			errs["order_index"] = validation.NewError("pagemodel.order_index_invalid", "order_index cannot be negative")
			continue
		}
		if _, dup := seen[component.OrderIndex]; dup {
			errs["order_index"] = validation.NewError(
				"pagemodel.order_index_duplicate",
				"duplicate order_index "+strconv.Itoa(component.OrderIndex),
			)
		}
		seen[component.OrderIndex] = struct{}{}
	}

	if direction := strings.TrimSpace(model.Page.Theme.Direction); direction != "ltr" && direction != "rtl" {
		errs["theme.direction"] = validation.NewError("pagemodel.direction_invalid", "theme direction must be ltr or rtl")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateComponentContent checks instance content against the schema derived
// from the variation's required fields.
func validateComponentContent(variation *ComponentVariation, content map[string]any) error {
	if variation == nil {
		return nil
	}
	schema := schemas.SchemaForFields(variation.RequiredFields)
	return schemas.ValidatePayload(schema, content)
}

func newFieldError(field, code, message string) error {
	return validation.Errors{field: validation.NewError(code, message)}
}
