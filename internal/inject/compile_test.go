package inject

import (
	"strings"
	"testing"
)

func TestCompileStripsEditorConstructs(t *testing.T) {
	source := `<section data-editor-selected="true">
<!-- editor:only -->
<div class="selection-outline">drag handle</div>
<!-- /editor:only -->
{{debug component state}}
<h1>{{content.headline}}</h1>
</section>`

	template, err := Compile("hero", 1, source)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	for _, node := range template.Nodes {
		literal, ok := node.(LiteralNode)
		if !ok {
			continue
		}
		for _, banned := range []string{"editor:only", "selection-outline", "data-editor", "{{debug"} {
			if strings.Contains(literal.Text, banned) {
				t.Errorf("editor construct %q survived compilation: %q", banned, literal.Text)
			}
		}
	}
}

func TestCompileParsesFieldRefs(t *testing.T) {
	template, err := Compile("hero", 1, `<h1 style="color: {{theme.primaryColor}}">{{content.headline}}</h1><img src="{{mediaUrls.banner}}"/>`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	var refs []FieldRefNode
	for _, node := range template.Nodes {
		if ref, ok := node.(FieldRefNode); ok {
			refs = append(refs, ref)
		}
	}
	if len(refs) != 3 {
		t.Fatalf("expected 3 field refs, got %d", len(refs))
	}
	if refs[0].Kind != RefTheme || refs[0].Name != "primaryColor" {
		t.Errorf("unexpected first ref: %+v", refs[0])
	}
	if refs[1].Kind != RefContent || refs[1].Name != "headline" {
		t.Errorf("unexpected second ref: %+v", refs[1])
	}
	if refs[2].Kind != RefMedia || refs[2].Name != "banner" {
		t.Errorf("unexpected third ref: %+v", refs[2])
	}
}

func TestCompileNestedVisibilityBlocks(t *testing.T) {
	source := `{{#visibility.outer}}a{{#visibility.inner}}b{{/visibility}}c{{/visibility}}`

	template, err := Compile("hero", 1, source)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(template.Nodes) != 1 {
		t.Fatalf("expected a single conditional, got %d nodes", len(template.Nodes))
	}

	outer, ok := template.Nodes[0].(ConditionalNode)
	if !ok || outer.Key != "outer" {
		t.Fatalf("unexpected root node: %+v", template.Nodes[0])
	}
	if len(outer.Body) != 3 {
		t.Fatalf("expected 3 body nodes, got %d", len(outer.Body))
	}
	inner, ok := outer.Body[1].(ConditionalNode)
	if !ok || inner.Key != "inner" {
		t.Errorf("expected nested conditional, got %+v", outer.Body[1])
	}
}

func TestCompileUnclosedBlockFails(t *testing.T) {
	if _, err := Compile("hero", 1, `{{#visibility.cta}}<button/>`); err == nil {
		t.Fatal("expected error for unclosed visibility block")
	}
	if _, err := Compile("hero", 1, `<div>{{/visibility}}</div>`); err == nil {
		t.Fatal("expected error for stray closing tag")
	}
}

func TestMissingHooks(t *testing.T) {
	template, err := Compile("hero", 1, `<h1>{{content.headline}}</h1>`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	missing := template.MissingHooks([]string{"headline", "subheadline"})
	if len(missing) != 1 || missing[0] != "subheadline" {
		t.Errorf("expected [subheadline], got %v", missing)
	}
	if missing := template.MissingHooks([]string{"headline"}); len(missing) != 0 {
		t.Errorf("expected no missing hooks, got %v", missing)
	}
}

func TestExportName(t *testing.T) {
	cases := []struct {
		componentType string
		variation     int
		want          string
	}{
		{"hero", 2, "HeroVariation2"},
		{"cta", 1, "CtaVariation1"},
		{"", 3, "ComponentVariation3"},
	}
	for _, tc := range cases {
		if got := ExportName(tc.componentType, tc.variation); got != tc.want {
			t.Errorf("ExportName(%q, %d) = %q, want %q", tc.componentType, tc.variation, got, tc.want)
		}
	}
}
