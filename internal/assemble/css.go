package assemble

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-sitebuilder/internal/pagemodel"
)

// renderStylesheet produces the companion stylesheet: theme CSS variables on
// :root, base element styles, and one rule block per component scoped by its
// id selector, derived from the instance style map.
func renderStylesheet(page *pagemodel.PageDefinition, components []*pagemodel.ComponentInstance, themeVars map[string]string) string {
	var builder strings.Builder

	builder.WriteString(":root {\n")
	for _, entry := range themeVariables(page.Theme, themeVars) {
		fmt.Fprintf(&builder, "  %s: %s;\n", entry.name, entry.value)
	}
	builder.WriteString("}\n\n")

	fmt.Fprintf(&builder, `html {
  direction: %s;
}

body {
  margin: 0;
  font-family: var(--font-family);
  background-color: var(--background-color);
}

.component-fallback {
  padding: 2rem;
  border: 1px dashed var(--secondary-color);
}
`, cssDirection(page.Theme.Direction))

	for _, component := range components {
		rules := componentRules(component)
		if len(rules) == 0 {
			continue
		}
		fmt.Fprintf(&builder, "\n#component-%s {\n", component.ID)
		for _, rule := range rules {
			fmt.Fprintf(&builder, "  %s: %s;\n", rule.name, rule.value)
		}
		builder.WriteString("}\n")
	}

	return builder.String()
}

type cssEntry struct {
	name  string
	value string
}

// themeVariables merges the page's global theme with variables contributed by
// an external theme manifest. Page values win; output is sorted for
// determinism.
func themeVariables(theme pagemodel.GlobalTheme, extra map[string]string) []cssEntry {
	vars := map[string]string{}
	for name, value := range extra {
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		vars[name] = value
	}

	set := func(name, value, fallback string) {
		if strings.TrimSpace(value) == "" {
			value = fallback
		}
		vars[name] = value
	}
	set("--primary-color", theme.PrimaryColor, "#1a1a2e")
	set("--secondary-color", theme.SecondaryColor, "#4361ee")
	set("--background-color", theme.BackgroundColor, "#ffffff")
	set("--font-family", theme.Font, "system-ui, sans-serif")

	out := make([]cssEntry, 0, len(vars))
	for name, value := range vars {
		out = append(out, cssEntry{name: name, value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// componentRules converts an instance style map into sorted CSS declarations.
// Map keys may use camelCase; they are normalized to kebab-case properties.
func componentRules(component *pagemodel.ComponentInstance) []cssEntry {
	out := make([]cssEntry, 0, len(component.Styles))
	for name, value := range component.Styles {
		name = kebabCase(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		out = append(out, cssEntry{name: name, value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func cssDirection(direction string) string {
	if direction == "rtl" {
		return "rtl"
	}
	return "ltr"
}

func kebabCase(input string) string {
	var builder strings.Builder
	for _, r := range input {
		if r >= 'A' && r <= 'Z' {
			builder.WriteByte('-')
			builder.WriteRune(r + ('a' - 'A'))
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
