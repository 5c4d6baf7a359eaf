package inject

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/goliatone/go-sitebuilder/internal/pagemodel"
)

// FallbackSkeleton renders a minimal stand-in for a component whose template
// cannot be used. It honors the same prop contract as a real render: content
// values appear as text, media URLs as images, and visibility is respected,
// so the page still publishes with every block present.
func FallbackSkeleton(instance *pagemodel.ComponentInstance) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, `<section id="component-%s" class="component-fallback" data-fallback="true">`, instance.ID)
	builder.WriteString("\n")

	for _, field := range sortedKeys(instance.Content) {
		if visible, present := instance.Visibility[field]; present && !visible {
			continue
		}
		value := encodeValue(instance.Content[field])
		if strings.TrimSpace(value) == "" {
			continue
		}
		fmt.Fprintf(&builder, `  <div data-field="%s">%s</div>`, html.EscapeString(field), html.EscapeString(value))
		builder.WriteString("\n")
	}

	for _, slot := range sortedKeys(instance.MediaURLs) {
		url := instance.MediaURLs[slot]
		if strings.TrimSpace(url) == "" {
			continue
		}
		fmt.Fprintf(&builder, `  <img data-slot="%s" src="%s" alt="" loading="lazy"/>`, html.EscapeString(slot), html.EscapeString(url))
		builder.WriteString("\n")
	}

	builder.WriteString("</section>")
	return builder.String()
}

func sortedKeys[V any](input map[string]V) []string {
	keys := make([]string, 0, len(input))
	for key := range input {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
