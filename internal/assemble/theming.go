package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// ThemingConfig points the assembler at an optional external theme package.
// When unset, the page's global theme alone drives the stylesheet.
type ThemingConfig struct {
	Dir               string
	Theme             string
	Variant           string
	CSSVariablePrefix string
}

type themeManifestLoader interface {
	Load(themePath string) (*gotheme.Manifest, error)
}

type fsThemeManifestLoader struct{}

func (fsThemeManifestLoader) Load(themePath string) (*gotheme.Manifest, error) {
	cleaned := filepath.Clean(strings.TrimSpace(themePath))
	if cleaned == "" {
		return nil, fmt.Errorf("theme path required")
	}
	return gotheme.LoadDir(os.DirFS(cleaned), ".")
}

// themePalette resolves CSS variables from a registered theme manifest. The
// manifest is loaded once and cached.
type themePalette struct {
	cfg      ThemingConfig
	registry *gotheme.MemoryRegistry
	loader   themeManifestLoader

	mu     sync.Mutex
	loaded bool
}

func newThemePalette(cfg ThemingConfig, loader themeManifestLoader) *themePalette {
	if loader == nil {
		loader = fsThemeManifestLoader{}
	}
	return &themePalette{
		cfg:      cfg,
		registry: gotheme.NewRegistry(),
		loader:   loader,
	}
}

// Variables returns the theme's CSS variables, or nil when no theme directory
// is configured. Load failures surface so a misconfigured theme fails the
// build before any network call.
func (p *themePalette) Variables() (map[string]string, error) {
	if p == nil || strings.TrimSpace(p.cfg.Dir) == "" {
		return nil, nil
	}

	if err := p.ensureLoaded(); err != nil {
		return nil, err
	}

	selector := gotheme.Selector{
		Registry:       p.registry,
		DefaultTheme:   p.cfg.Theme,
		DefaultVariant: p.cfg.Variant,
	}
	selection, err := selector.Select(p.cfg.Theme, p.cfg.Variant)
	if err != nil {
		return nil, fmt.Errorf("select theme %s: %w", p.cfg.Theme, err)
	}

	return selection.CSSVariables(p.cfg.CSSVariablePrefix), nil
}

func (p *themePalette) ensureLoaded() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return nil
	}

	manifest, err := p.loader.Load(p.cfg.Dir)
	if err != nil {
		return fmt.Errorf("load theme manifest from %s: %w", p.cfg.Dir, err)
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" {
		normalized.Name = strings.TrimSpace(p.cfg.Theme)
	}
	if normalized.Name == "" {
		return fmt.Errorf("theme name required for manifest registration")
	}
	if p.cfg.Theme == "" {
		p.cfg.Theme = normalized.Name
	}

	if err := p.registry.Register(&normalized); err != nil {
		return fmt.Errorf("register theme manifest: %w", err)
	}
	p.loaded = true
	return nil
}
