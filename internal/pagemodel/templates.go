package pagemodel

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
)

// TemplateCatalog loads component variation templates from a directory tree.
// Each file is a Markdown-style document: YAML frontmatter describing the
// variation, followed by the template body.
type TemplateCatalog struct {
	fsys fs.FS
}

// NewTemplateCatalog wraps a filesystem rooted at the template directory.
func NewTemplateCatalog(fsys fs.FS) *TemplateCatalog {
	return &TemplateCatalog{fsys: fsys}
}

type variationEnvelope struct {
	Type              string          `yaml:"type"`
	Variation         int             `yaml:"variation"`
	RequiredFields    []string        `yaml:"required_fields"`
	RequiredImages    int             `yaml:"required_images"`
	DefaultVisibility map[string]bool `yaml:"default_visibility"`
}

// Load parses every ".tmpl" and ".html" file under the catalog root and
// returns registration inputs sorted by type then variation number. Files
// missing a type or variation number are rejected rather than skipped so a
// broken catalog fails loudly.
func (c *TemplateCatalog) Load() ([]RegisterVariationInput, error) {
	if c == nil || c.fsys == nil {
		return nil, fmt.Errorf("template catalog: no filesystem configured")
	}

	var inputs []RegisterVariationInput
	err := fs.WalkDir(c.fsys, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !isTemplateFile(name) {
			return nil
		}

		source, err := fs.ReadFile(c.fsys, name)
		if err != nil {
			return fmt.Errorf("template catalog: read %s: %w", name, err)
		}

		input, err := parseVariationTemplate(name, source)
		if err != nil {
			return err
		}
		inputs = append(inputs, input)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(inputs, func(i, j int) bool {
		if inputs[i].Type != inputs[j].Type {
			return inputs[i].Type < inputs[j].Type
		}
		return inputs[i].Variation < inputs[j].Variation
	})

	return inputs, nil
}

// Sync loads the catalog and registers every variation through the service.
// Registration is idempotent, so repeated syncs converge on the catalog state.
func (c *TemplateCatalog) Sync(ctx context.Context, svc Service) (int, error) {
	inputs, err := c.Load()
	if err != nil {
		return 0, err
	}

	for _, input := range inputs {
		if _, err := svc.RegisterVariation(ctx, input); err != nil {
			return 0, fmt.Errorf("template catalog: register %s/%d: %w", input.Type, input.Variation, err)
		}
	}
	return len(inputs), nil
}

func parseVariationTemplate(name string, source []byte) (RegisterVariationInput, error) {
	var meta variationEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return RegisterVariationInput{}, fmt.Errorf("template catalog: parse %s: %w", name, err)
	}

	if strings.TrimSpace(meta.Type) == "" {
		return RegisterVariationInput{}, fmt.Errorf("template catalog: %s: missing component type", name)
	}
	if meta.Variation <= 0 {
		return RegisterVariationInput{}, fmt.Errorf("template catalog: %s: variation number must be positive", name)
	}

	template := strings.TrimSpace(string(body))
	if template == "" {
		return RegisterVariationInput{}, fmt.Errorf("template catalog: %s: empty template body", name)
	}

	return RegisterVariationInput{
		Type:              meta.Type,
		Variation:         meta.Variation,
		Template:          template,
		RequiredFields:    append([]string(nil), meta.RequiredFields...),
		RequiredImages:    meta.RequiredImages,
		DefaultVisibility: cloneVisibility(meta.DefaultVisibility),
	}, nil
}

func isTemplateFile(name string) bool {
	switch path.Ext(name) {
	case ".tmpl", ".html":
		return true
	}
	return false
}

func cloneVisibility(input map[string]bool) map[string]bool {
	if input == nil {
		return nil
	}
	out := make(map[string]bool, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
