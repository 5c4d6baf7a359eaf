package sitebuilder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/goliatone/go-sitebuilder/internal/di"
	"github.com/goliatone/go-sitebuilder/internal/domains"
	"github.com/goliatone/go-sitebuilder/internal/hosting"
	"github.com/goliatone/go-sitebuilder/internal/pagemodel"
)

// stubHost answers the happy path of the hosting API in memory.
type stubHost struct {
	mu      sync.Mutex
	sites   map[string]*hosting.Site
	siteSeq int
	deploys int
}

func newStubHost() *stubHost {
	return &stubHost{sites: map[string]*hosting.Site{}}
}

func (s *stubHost) CreateSite(_ context.Context, name string) (*hosting.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.siteSeq++
	site := &hosting.Site{
		ID:   fmt.Sprintf("site-%d", s.siteSeq),
		Name: name,
		URL:  fmt.Sprintf("https://%s.examplehost.app", name),
	}
	s.sites[site.ID] = site
	return site, nil
}

func (s *stubHost) GetSite(_ context.Context, siteID string) (*hosting.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	site, ok := s.sites[siteID]
	if !ok {
		return nil, &hosting.APIError{StatusCode: 404, Status: "404 Not Found"}
	}
	return site, nil
}

func (s *stubHost) UpdateSite(_ context.Context, siteID string, update hosting.SiteUpdate) (*hosting.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	site, ok := s.sites[siteID]
	if !ok {
		return nil, &hosting.APIError{StatusCode: 404, Status: "404 Not Found"}
	}
	if update.CustomDomain != nil {
		site.CustomDomain = *update.CustomDomain
	}
	if update.Aliases != nil {
		site.Aliases = update.Aliases
	}
	if update.ForceSSL != nil {
		site.ForceSSL = *update.ForceSSL
	}
	return site, nil
}

func (s *stubHost) ListSites(context.Context) ([]*hosting.Site, error) {
	return nil, errors.New("not supported by stub")
}

func (s *stubHost) CreateDeploy(context.Context, string, map[string]string) (*hosting.Deployment, error) {
	return nil, errors.New("not supported by stub")
}

func (s *stubHost) CreateArchiveDeploy(_ context.Context, siteID string, _ []byte) (*hosting.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deploys++
	return &hosting.Deployment{
		ID:     fmt.Sprintf("deploy-%d", s.deploys),
		SiteID: siteID,
		State:  hosting.DeployQueued,
	}, nil
}

func (s *stubHost) UploadFile(context.Context, string, string, []byte) error {
	return errors.New("not supported by stub")
}

func (s *stubHost) GetDeploy(_ context.Context, deployID string) (*hosting.Deployment, error) {
	return &hosting.Deployment{
		ID:    deployID,
		State: hosting.DeployReady,
		URL:   "https://spring-launch.examplehost.app",
	}, nil
}

func (s *stubHost) CreateDNSZone(_ context.Context, domain string) (*hosting.DNSZone, error) {
	return &hosting.DNSZone{
		ID:         "zone-1",
		Name:       domain,
		DNSServers: []string{"dns1.examplehost.app", "dns2.examplehost.app"},
	}, nil
}

func (s *stubHost) CreateDNSRecord(context.Context, string, hosting.DNSRecord) (*hosting.DNSRecord, error) {
	return nil, errors.New("not supported by stub")
}

func (s *stubHost) ProvisionCertificate(context.Context, string) (*hosting.Certificate, error) {
	return &hosting.Certificate{State: "provisioning"}, nil
}

func (s *stubHost) GetCertificate(context.Context, string) (*hosting.Certificate, error) {
	return &hosting.Certificate{State: "issued"}, nil
}

type stubProber struct{}

func (stubProber) Check(context.Context, string) domains.ProbeResult {
	return domains.ProbeResult{Reachable: true, Detail: "domain is serving content"}
}

func testModule(t *testing.T, host *stubHost) *Module {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Hosting.BaseURL = "https://api.examplehost.app"
	cfg.Hosting.Token = "test-token"
	cfg.Features.Deploys = true
	cfg.Features.Domains = true
	cfg.Deploy.ArchiveDir = t.TempDir()

	module, err := New(cfg, di.WithHostingClient(host), di.WithProber(stubProber{}))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	return module
}

func seedPage(t *testing.T, pages PageService) *PageDefinition {
	t.Helper()
	ctx := context.Background()

	if _, err := pages.RegisterVariation(ctx, pagemodel.RegisterVariationInput{
		Type:           "hero",
		Variation:      1,
		Template:       `<section class="hero"><h1>{{content.headline}}</h1></section>`,
		RequiredFields: []string{"headline"},
	}); err != nil {
		t.Fatalf("register variation: %v", err)
	}

	page, err := pages.CreatePage(ctx, pagemodel.CreatePageInput{Slug: "spring-launch", Title: "Spring Launch"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if _, err := pages.AddComponent(ctx, pagemodel.AddComponentInput{
		PageID:     page.ID,
		OrderIndex: 1,
		Type:       "hero",
		Variation:  1,
		Content:    map[string]any{"headline": "Spring Launch"},
	}); err != nil {
		t.Fatalf("add component: %v", err)
	}
	return page
}

func TestModulePublishesPage(t *testing.T) {
	host := newStubHost()
	module := testModule(t, host)
	page := seedPage(t, module.Pages())

	result, err := module.Deploy(context.Background(), page.ID)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if result.URL == "" || result.SiteID == "" {
		t.Fatalf("expected url and site id, got %+v", result)
	}

	model, err := module.Pages().GetPageWithComponents(context.Background(), page.ID)
	if err != nil {
		t.Fatalf("reload page: %v", err)
	}
	if model.Page.Status != pagemodel.StatusPublished {
		t.Errorf("expected published page, got %q", model.Page.Status)
	}
}

func TestModuleDomainRoundTrip(t *testing.T) {
	host := newStubHost()
	module := testModule(t, host)
	page := seedPage(t, module.Pages())

	deployResult, err := module.Deploy(context.Background(), page.ID)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}

	setup, err := module.SetupDomain(context.Background(), deployResult.SiteID, "example.com")
	if err != nil {
		t.Fatalf("setup domain: %v", err)
	}
	if setup.Strategy != domains.StrategyNameservers {
		t.Errorf("expected nameserver delegation for an apex, got %q", setup.Strategy)
	}

	verification, err := module.VerifyDomain(context.Background(), deployResult.SiteID, "example.com")
	if err != nil {
		t.Fatalf("verify domain: %v", err)
	}
	if verification.State != domains.VerificationActive {
		t.Errorf("expected active verification, got %q", verification.State)
	}
}

func TestModuleFeatureGates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Deploy.ArchiveDir = t.TempDir()

	module, err := New(cfg, di.WithHostingClient(newStubHost()))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	page := seedPage(t, module.Pages())
	if _, err := module.Deploy(context.Background(), page.ID); !errors.Is(err, ErrDeploysDisabled) {
		t.Errorf("expected deploys-disabled error, got %v", err)
	}
	if _, err := module.SetupDomain(context.Background(), "site-1", "example.com"); !errors.Is(err, ErrDomainsDisabled) {
		t.Errorf("expected domains-disabled error, got %v", err)
	}
}
