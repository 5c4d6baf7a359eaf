package assemble

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-sitebuilder/internal/inject"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/pagemodel"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// Assembler turns a validated page model into the deployable artifact set:
// index.html, styles.css, app.js, and the provider headers and redirects
// files.
type Assembler struct {
	engine  *inject.Engine
	palette *themePalette
	logger  interfaces.Logger
	now     func() time.Time
	baseURL string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the assembler's diagnostics logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock overrides the build timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(a *Assembler) {
		if clock != nil {
			a.now = clock
		}
	}
}

// WithBaseURL sets the absolute base used for canonical and Open Graph URLs.
func WithBaseURL(baseURL string) Option {
	return func(a *Assembler) {
		a.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithTheming points the assembler at an external theme package.
func WithTheming(cfg ThemingConfig) Option {
	return func(a *Assembler) {
		a.palette = newThemePalette(cfg, nil)
	}
}

// New builds an Assembler around an injection engine.
func New(engine *inject.Engine, opts ...Option) *Assembler {
	assembler := &Assembler{
		engine: engine,
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(assembler)
	}
	if assembler.engine == nil {
		assembler.engine = inject.NewEngine()
	}
	return assembler
}

// Result carries the assembled manifest plus non-fatal render diagnostics.
type Result struct {
	Manifest  *FileManifest
	Fallbacks []*inject.TemplateError
}

// Assemble validates the page model and produces its full artifact set.
// Output is byte-identical for identical inputs, except for the build
// timestamp comment in the document, which callers exclude by fixing the
// clock.
func (a *Assembler) Assemble(model *pagemodel.PageModel) (*Result, error) {
	if err := pagemodel.ValidatePageModel(model); err != nil {
		return nil, err
	}

	components := orderComponents(model.Components)

	var (
		body      strings.Builder
		fallbacks []*inject.TemplateError
	)
	for _, component := range components {
		output := a.engine.RenderComponent(component, model.Page.Theme)
		if output.Fallback && output.Diagnostic != nil {
			fallbacks = append(fallbacks, output.Diagnostic)
		}
		fmt.Fprintf(&body, "    <div id=\"component-%s\" data-component=\"%s\">\n%s\n    </div>\n",
			component.ID, output.ExportName, indent(output.HTML, "      "))
	}

	themeVars, err := a.themeVariables()
	if err != nil {
		return nil, err
	}

	resolver := newCanonicalResolver(a.baseURL)
	tracking := validTracking(model.Page.Tracking, a.logger)

	manifest := NewFileManifest()
	manifest.Add("index.html", []byte(a.renderDocument(model.Page, resolver, tracking, body.String())))
	manifest.Add("styles.css", []byte(renderStylesheet(model.Page, components, themeVars)))
	manifest.Add("app.js", []byte(runtimeScript))
	manifest.Add("_headers", []byte(headersFile))
	manifest.Add("_redirects", []byte(redirectsFile))

	a.logger.Debug("page assembled",
		"page_id", model.Page.ID,
		"components", len(components),
		"fallbacks", len(fallbacks),
		"files", manifest.Len(),
	)

	return &Result{Manifest: manifest, Fallbacks: fallbacks}, nil
}

func (a *Assembler) themeVariables() (map[string]string, error) {
	if a.palette == nil {
		return nil, nil
	}
	return a.palette.Variables()
}

func (a *Assembler) renderDocument(page *pagemodel.PageDefinition, resolver *canonicalResolver, tracking pagemodel.TrackingConfig, body string) string {
	var builder strings.Builder

	lang := page.Theme.Language
	if lang == "" {
		lang = "en"
	}

	builder.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&builder, "<html lang=\"%s\" dir=\"%s\">\n", lang, cssDirection(page.Theme.Direction))
	fmt.Fprintf(&builder, "<!-- built %s -->\n", a.now().UTC().Format(time.RFC3339))
	builder.WriteString("<head>\n")
	builder.WriteString(renderHead(page, resolver, tracking))
	builder.WriteString("</head>\n")
	builder.WriteString("<body>\n")
	builder.WriteString("  <main>\n")
	builder.WriteString(body)
	builder.WriteString("  </main>\n")
	builder.WriteString("</body>\n")
	builder.WriteString("</html>\n")

	return builder.String()
}

// orderComponents sorts ascending by order index; ties keep input order.
func orderComponents(components []*pagemodel.ComponentInstance) []*pagemodel.ComponentInstance {
	out := append([]*pagemodel.ComponentInstance(nil), components...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderIndex < out[j].OrderIndex
	})
	return out
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
