package di

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-sitebuilder/internal/runtimeconfig"
)

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Hosting.BaseURL = "https://api.examplehost.app"
	cfg.Hosting.Token = "test-token"
	cfg.Features.Deploys = true
	return cfg
}

func TestNewContainerDefaults(t *testing.T) {
	c, err := NewContainer(testConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	if c.PageModelService() == nil {
		t.Error("expected a page model service")
	}
	if c.InjectEngine() == nil {
		t.Error("expected an inject engine")
	}
	if c.Assembler() == nil {
		t.Error("expected an assembler")
	}
	if c.DeployService() == nil {
		t.Error("expected a deploy service")
	}
	if c.DomainService() == nil {
		t.Error("expected a domain service")
	}
	if c.HostingClient() == nil {
		t.Error("expected a hosting client")
	}
	if c.DeploymentRecords() == nil {
		t.Error("expected a deployment record repository")
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Hosting.Token = ""

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrHostingTokenRequired) {
		t.Fatalf("expected token validation error, got %v", err)
	}
}

func TestContainerSyncTemplatesDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Templates.Enabled = false

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	count, err := c.SyncTemplates(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no registrations with templates disabled, got %d", count)
	}
}

func TestContainerSyncTemplatesFromDirectory(t *testing.T) {
	dir := t.TempDir()
	template := `---
type: hero
variation: 1
required_fields:
  - headline
---
<section class="hero"><h1>{{content.headline}}</h1></section>
`
	if err := os.WriteFile(filepath.Join(dir, "hero_1.tmpl"), []byte(template), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	cfg := testConfig()
	cfg.Templates.Enabled = true
	cfg.Templates.Dir = dir

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	count, err := c.SyncTemplates(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one registered variation, got %d", count)
	}
}

func TestContainerGologgerProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if c.LoggerProvider() == nil {
		t.Fatal("expected a logger provider when logging is enabled")
	}
	if logger := c.LoggerProvider().GetLogger("sitebuilder.test"); logger == nil {
		t.Error("expected a named logger")
	}
}
