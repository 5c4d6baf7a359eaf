package sitebuilder

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/deploy"
	"github.com/goliatone/go-sitebuilder/internal/di"
	"github.com/goliatone/go-sitebuilder/internal/domains"
	"github.com/goliatone/go-sitebuilder/internal/pagemodel"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// ErrDeploysDisabled is returned when publish operations are called with the
// deploys feature switched off.
var ErrDeploysDisabled = errors.New("sitebuilder: deploys are disabled in configuration")

// ErrDomainsDisabled is returned when domain operations are called with the
// domains feature switched off.
var ErrDomainsDisabled = errors.New("sitebuilder: domains are disabled in configuration")

// PageService exports the page model service contract.
type PageService = pagemodel.Service

// DeployService exports the deployment orchestrator contract.
type DeployService = deploy.Service

// DomainService exports the domain manager contract.
type DomainService = domains.Service

// DeployResult is the outcome of a successful publish.
type DeployResult = deploy.Result

// DomainSetupResult is the synchronous answer to a domain setup call.
type DomainSetupResult = domains.SetupResult

// DomainVerification reports a domain's verification state.
type DomainVerification = domains.VerificationStatus

// PageDefinition exports the page-level record.
type PageDefinition = pagemodel.PageDefinition

// PageModel exports the full page bundle handed to the pipeline.
type PageModel = pagemodel.PageModel

// ComponentInstance exports a page's ordered content block.
type ComponentInstance = pagemodel.ComponentInstance

// ComponentVariation exports the immutable component template record.
type ComponentVariation = pagemodel.ComponentVariation

// GlobalTheme exports the page-wide theme value object.
type GlobalTheme = pagemodel.GlobalTheme

// Module is the top level sitebuilder runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a sitebuilder module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Pages returns the configured page model service.
func (m *Module) Pages() PageService {
	return m.container.PageModelService()
}

// Deployer returns the deployment orchestrator.
func (m *Module) Deployer() DeployService {
	return m.container.DeployService()
}

// Domains returns the domain manager.
func (m *Module) Domains() DomainService {
	return m.container.DomainService()
}

// LoggerProvider exposes the configured logger provider.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.container.LoggerProvider()
}

// Deploy publishes a page and returns its live URL and site identifier.
func (m *Module) Deploy(ctx context.Context, pageID uuid.UUID) (*DeployResult, error) {
	if !m.container.Config.Features.Deploys {
		return nil, ErrDeploysDisabled
	}
	return m.container.DeployService().Deploy(ctx, pageID)
}

// SetupDomain attaches a custom domain to a deployed site and returns the
// DNS wiring the owner must perform.
func (m *Module) SetupDomain(ctx context.Context, siteID, domain string) (*DomainSetupResult, error) {
	if !m.container.Config.Features.Domains {
		return nil, ErrDomainsDisabled
	}
	return m.container.DomainService().SetupDomain(ctx, siteID, domain)
}

// VerifyDomain reports where a configured domain sits in the verification
// machine.
func (m *Module) VerifyDomain(ctx context.Context, siteID, domain string) (*DomainVerification, error) {
	if !m.container.Config.Features.Domains {
		return nil, ErrDomainsDisabled
	}
	return m.container.DomainService().VerifyDomain(ctx, siteID, domain)
}

// SyncTemplates loads variation templates from the configured directory into
// the page model service.
func (m *Module) SyncTemplates(ctx context.Context) (int, error) {
	return m.container.SyncTemplates(ctx)
}
