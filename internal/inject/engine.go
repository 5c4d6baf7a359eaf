package inject

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/pagemodel"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// ComponentOutput is one component's production HTML plus render diagnostics.
type ComponentOutput struct {
	InstanceID uuid.UUID
	ExportName string
	HTML       string
	Fallback   bool
	Diagnostic *TemplateError
}

// Engine compiles variation templates once and evaluates them against each
// instance's resolved data. It performs no I/O: the same inputs always
// produce the same output.
type Engine struct {
	markdown *MarkdownRenderer
	logger   interfaces.Logger

	mu       sync.RWMutex
	compiled map[uuid.UUID]*Template
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the render diagnostics logger.
func WithLogger(logger interfaces.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine builds an injection engine with a fresh template cache.
func NewEngine(opts ...EngineOption) *Engine {
	engine := &Engine{
		markdown: NewMarkdownRenderer(),
		logger:   logging.NoOp(),
		compiled: make(map[uuid.UUID]*Template),
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// RenderComponent produces an instance's production HTML. Template problems
// never fail the page: the output carries a fallback skeleton and the
// recoverable TemplateError that caused it.
func (e *Engine) RenderComponent(instance *pagemodel.ComponentInstance, theme pagemodel.GlobalTheme) ComponentOutput {
	variation := instance.Variation
	if variation == nil {
		diag := &TemplateError{Reason: "instance has no variation template"}
		e.warn(instance, diag)
		return e.fallbackOutput(instance, "Component", diag)
	}

	exportName := ExportName(variation.Type, variation.Variation)

	template, err := e.template(variation)
	if err != nil {
		diag := &TemplateError{
			ComponentType: variation.Type,
			Variation:     variation.Variation,
			Reason:        err.Error(),
		}
		e.warn(instance, diag)
		return e.fallbackOutput(instance, exportName, diag)
	}

	if missing := template.MissingHooks(variation.RequiredFields); len(missing) > 0 {
		diag := &TemplateError{
			ComponentType: variation.Type,
			Variation:     variation.Variation,
			MissingHooks:  missing,
		}
		e.warn(instance, diag)
		return e.fallbackOutput(instance, exportName, diag)
	}

	var builder strings.Builder
	e.renderNodes(&builder, template.Nodes, instance, theme)

	return ComponentOutput{
		InstanceID: instance.ID,
		ExportName: template.ExportName,
		HTML:       normalizeWhitespace(builder.String()),
	}
}

// template returns the compiled form of a variation, compiling on first use.
func (e *Engine) template(variation *pagemodel.ComponentVariation) (*Template, error) {
	e.mu.RLock()
	cached, ok := e.compiled[variation.ID]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	compiled, err := Compile(variation.Type, variation.Variation, variation.Template)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.compiled[variation.ID] = compiled
	e.mu.Unlock()
	return compiled, nil
}

func (e *Engine) renderNodes(builder *strings.Builder, nodes []Node, instance *pagemodel.ComponentInstance, theme pagemodel.GlobalTheme) {
	for _, node := range nodes {
		switch n := node.(type) {
		case LiteralNode:
			builder.WriteString(n.Text)
		case ConditionalNode:
			// Absent keys default to visible.
			if visible, present := instance.Visibility[n.Key]; present && !visible {
				continue
			}
			e.renderNodes(builder, n.Body, instance, theme)
		case FieldRefNode:
			builder.WriteString(e.resolveRef(n, instance, theme))
		}
	}
}

// resolveRef substitutes one symbolic reference with its literal value.
// Non-string values are JSON-encoded; markdown-suffixed content fields are
// rendered to HTML first.
func (e *Engine) resolveRef(ref FieldRefNode, instance *pagemodel.ComponentInstance, theme pagemodel.GlobalTheme) string {
	switch ref.Kind {
	case RefContent:
		value, ok := instance.Content[ref.Name]
		if !ok {
			return ""
		}
		text := encodeValue(value)
		if strings.HasSuffix(ref.Name, markdownSuffix) {
			if rendered, err := e.markdown.Render(text); err == nil {
				return strings.TrimSpace(rendered)
			}
		}
		return text
	case RefStyles:
		return instance.Styles[ref.Name]
	case RefMedia:
		return instance.MediaURLs[ref.Name]
	case RefActions:
		value, ok := instance.CustomActions[ref.Name]
		if !ok {
			return ""
		}
		return encodeValue(value)
	case RefTheme:
		return themeValue(theme, ref.Name)
	}
	return ""
}

func encodeValue(value any) string {
	if text, ok := value.(string); ok {
		return text
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(encoded)
}

func themeValue(theme pagemodel.GlobalTheme, name string) string {
	switch name {
	case "primaryColor":
		return theme.PrimaryColor
	case "secondaryColor":
		return theme.SecondaryColor
	case "backgroundColor":
		return theme.BackgroundColor
	case "font":
		return theme.Font
	case "direction":
		return theme.Direction
	case "language":
		return theme.Language
	}
	return ""
}

func (e *Engine) fallbackOutput(instance *pagemodel.ComponentInstance, exportName string, diag *TemplateError) ComponentOutput {
	return ComponentOutput{
		InstanceID: instance.ID,
		ExportName: exportName,
		HTML:       FallbackSkeleton(instance),
		Fallback:   true,
		Diagnostic: diag,
	}
}

func (e *Engine) warn(instance *pagemodel.ComponentInstance, diag *TemplateError) {
	e.logger.Warn("template fallback", "instance_id", instance.ID, "error", diag.Error())
}

var blankLinePattern = strings.NewReplacer("\r\n", "\n")

// normalizeWhitespace trims trailing space per line and collapses runs of
// blank lines left behind by pruned blocks.
func normalizeWhitespace(source string) string {
	lines := strings.Split(blankLinePattern.Replace(source), "\n")

	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" {
			blanks++
			if blanks > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blanks = 0
		out = append(out, trimmed)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
