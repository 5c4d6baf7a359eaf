package inject

import (
	"fmt"
	"strings"
)

// TemplateError reports a template that cannot faithfully render an instance,
// typically because a required substitution hook is absent. It is recoverable:
// the engine substitutes a fallback skeleton instead of failing the page.
type TemplateError struct {
	ComponentType string
	Variation     int
	MissingHooks  []string
	Reason        string
}

func (e *TemplateError) Error() string {
	if len(e.MissingHooks) > 0 {
		return fmt.Sprintf("template %s/%d missing hooks: %s",
			e.ComponentType, e.Variation, strings.Join(e.MissingHooks, ", "))
	}
	return fmt.Sprintf("template %s/%d: %s", e.ComponentType, e.Variation, e.Reason)
}
