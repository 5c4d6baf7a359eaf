package inject

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/pagemodel"
)

func heroVariation(template string, requiredFields ...string) *pagemodel.ComponentVariation {
	return &pagemodel.ComponentVariation{
		ID:             uuid.New(),
		Type:           "hero",
		Variation:      1,
		Template:       template,
		RequiredFields: requiredFields,
	}
}

func heroInstance(variation *pagemodel.ComponentVariation) *pagemodel.ComponentInstance {
	return &pagemodel.ComponentInstance{
		ID:          uuid.New(),
		VariationID: variation.ID,
		Variation:   variation,
		Content:     map[string]any{},
		Styles:      map[string]string{},
		Visibility:  map[string]bool{},
		MediaURLs:   map[string]string{},
	}
}

func TestRenderSubstitutesLiterals(t *testing.T) {
	variation := heroVariation(
		`<h1 style="color: {{theme.primaryColor}}">{{content.headline}}</h1>`+
			`<img src="{{mediaUrls.banner}}" style="{{styles.banner}}"/>`,
		"headline",
	)
	instance := heroInstance(variation)
	instance.Content["headline"] = "Launch faster"
	instance.MediaURLs["banner"] = "https://cdn.example.com/banner.png"
	instance.Styles["banner"] = "object-fit: cover"

	output := NewEngine().RenderComponent(instance, pagemodel.GlobalTheme{PrimaryColor: "#112233"})
	if output.Fallback {
		t.Fatalf("unexpected fallback: %v", output.Diagnostic)
	}
	if output.ExportName != "HeroVariation1" {
		t.Errorf("unexpected export name %q", output.ExportName)
	}

	for _, want := range []string{"Launch faster", "#112233", "https://cdn.example.com/banner.png", "object-fit: cover"} {
		if !strings.Contains(output.HTML, want) {
			t.Errorf("output missing %q:\n%s", want, output.HTML)
		}
	}
	if strings.Contains(output.HTML, "{{") {
		t.Errorf("unresolved reference left in output:\n%s", output.HTML)
	}
}

func TestRenderEncodesNonStringValues(t *testing.T) {
	variation := heroVariation(`<div data-items='{{content.items}}' data-action='{{customActions.cta}}'></div>`, "items")
	instance := heroInstance(variation)
	instance.Content["items"] = []any{"a", "b"}
	instance.CustomActions = map[string]any{"cta": map[string]any{"type": "scroll_to", "target": "#pricing"}}

	output := NewEngine().RenderComponent(instance, pagemodel.GlobalTheme{})
	if output.Fallback {
		t.Fatalf("unexpected fallback: %v", output.Diagnostic)
	}
	if !strings.Contains(output.HTML, `["a","b"]`) {
		t.Errorf("list not JSON-encoded:\n%s", output.HTML)
	}
	if !strings.Contains(output.HTML, `"type":"scroll_to"`) {
		t.Errorf("action not JSON-encoded:\n%s", output.HTML)
	}
}

func TestRenderVisibilityPruning(t *testing.T) {
	variation := heroVariation(
		`<h1>{{content.headline}}</h1>`+
			`{{#visibility.subheadline}}<p>{{content.subheadline}}</p>{{/visibility}}`+
			`{{#visibility.badge}}<span class="badge">New</span>{{/visibility}}`,
		"headline",
	)
	instance := heroInstance(variation)
	instance.Content["headline"] = "Hello"
	instance.Content["subheadline"] = "Hidden copy"
	instance.Visibility["subheadline"] = false
	// badge key absent: defaults to visible.

	output := NewEngine().RenderComponent(instance, pagemodel.GlobalTheme{})
	if output.Fallback {
		t.Fatalf("unexpected fallback: %v", output.Diagnostic)
	}
	if strings.Contains(output.HTML, "Hidden copy") {
		t.Errorf("hidden block rendered:\n%s", output.HTML)
	}
	if !strings.Contains(output.HTML, `<span class="badge">New</span>`) {
		t.Errorf("absent visibility key should default to visible:\n%s", output.HTML)
	}
}

func TestRenderMarkdownFields(t *testing.T) {
	variation := heroVariation(`<div class="prose">{{content.body__md}}</div>`, "body__md")
	instance := heroInstance(variation)
	instance.Content["body__md"] = "# Pricing\n\nSimple **flat** pricing."

	output := NewEngine().RenderComponent(instance, pagemodel.GlobalTheme{})
	if output.Fallback {
		t.Fatalf("unexpected fallback: %v", output.Diagnostic)
	}
	if !strings.Contains(output.HTML, "<h1") || !strings.Contains(output.HTML, "<strong>flat</strong>") {
		t.Errorf("markdown field not rendered:\n%s", output.HTML)
	}
}

func TestRenderFallbackOnMissingHook(t *testing.T) {
	variation := heroVariation(`<h1>{{content.headline}}</h1>`, "headline", "subheadline")
	instance := heroInstance(variation)
	instance.Content["headline"] = "Hello"
	instance.Content["subheadline"] = "Still shown in skeleton"

	output := NewEngine().RenderComponent(instance, pagemodel.GlobalTheme{})
	if !output.Fallback {
		t.Fatal("expected fallback output")
	}
	if output.Diagnostic == nil || len(output.Diagnostic.MissingHooks) != 1 {
		t.Fatalf("expected missing-hook diagnostic, got %+v", output.Diagnostic)
	}
	if !strings.Contains(output.HTML, `data-fallback="true"`) {
		t.Errorf("skeleton marker missing:\n%s", output.HTML)
	}
	if !strings.Contains(output.HTML, "Still shown in skeleton") {
		t.Errorf("skeleton should carry content values:\n%s", output.HTML)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	variation := heroVariation(
		`<section data-editor-selected="true">
<h1>{{content.headline}}</h1>
{{#visibility.cta}}<button>{{content.cta}}</button>{{/visibility}}
</section>`,
		"headline",
	)
	instance := heroInstance(variation)
	instance.Content["headline"] = "Hello"
	instance.Content["cta"] = "Buy now"

	engine := NewEngine()
	first := engine.RenderComponent(instance, pagemodel.GlobalTheme{})
	if first.Fallback {
		t.Fatalf("unexpected fallback: %v", first.Diagnostic)
	}

	// Re-inject the engine's own output: compiling and rendering it again
	// must change nothing.
	again := heroVariation(first.HTML)
	second := NewEngine().RenderComponent(func() *pagemodel.ComponentInstance {
		clone := heroInstance(again)
		clone.Content = instance.Content
		return clone
	}(), pagemodel.GlobalTheme{})

	if second.Fallback {
		t.Fatalf("unexpected fallback on re-run: %v", second.Diagnostic)
	}
	if first.HTML != second.HTML {
		t.Errorf("re-running on own output changed it:\nfirst:\n%s\nsecond:\n%s", first.HTML, second.HTML)
	}
}

func TestRenderDeterministic(t *testing.T) {
	variation := heroVariation(`<h1>{{content.headline}}</h1><p>{{content.body}}</p>`, "headline")
	instance := heroInstance(variation)
	instance.Content["headline"] = "Hello"
	instance.Content["body"] = "World"

	engine := NewEngine()
	first := engine.RenderComponent(instance, pagemodel.GlobalTheme{PrimaryColor: "#000"})
	second := engine.RenderComponent(instance, pagemodel.GlobalTheme{PrimaryColor: "#000"})
	if first.HTML != second.HTML {
		t.Error("identical inputs produced different output")
	}
}
