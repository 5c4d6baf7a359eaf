package di

import (
	"context"
	"net/http"
	"os"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebuilder/internal/assemble"
	"github.com/goliatone/go-sitebuilder/internal/deploy"
	"github.com/goliatone/go-sitebuilder/internal/domains"
	"github.com/goliatone/go-sitebuilder/internal/hosting"
	"github.com/goliatone/go-sitebuilder/internal/inject"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/logging/console"
	"github.com/goliatone/go-sitebuilder/internal/logging/gologger"
	"github.com/goliatone/go-sitebuilder/internal/pagemodel"
	"github.com/goliatone/go-sitebuilder/internal/runtimeconfig"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// Container wires module dependencies. Defaults are in-memory; supplying a
// bun database and a hosting token turns it into a production wiring.
type Container struct {
	Config runtimeconfig.Config

	logProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	pageRepo      pagemodel.PageRepository
	componentRepo pagemodel.ComponentRepository
	variationRepo pagemodel.VariationRepository
	recordRepo    deploy.RecordRepository

	hostingClient hosting.Client
	prober        domains.Prober
	clock         func() time.Time

	pageSvc      pagemodel.Service
	injectEngine *inject.Engine
	assembler    *assemble.Assembler
	deploySvc    deploy.Service
	domainsSvc   domains.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds the container to a bun database; repositories switch from
// in-memory to persistent.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache bindings.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithHostingClient overrides the hosting API client. Tests use this to swap
// in fakes.
func WithHostingClient(client hosting.Client) Option {
	return func(c *Container) {
		c.hostingClient = client
	}
}

// WithLoggerProvider overrides the logger provider derived from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.logProvider = provider
	}
}

// WithProber overrides the domain reachability prober.
func WithProber(prober domains.Prober) Option {
	return func(c *Container) {
		c.prober = prober
	}
}

// WithClock overrides the timestamp source used across services.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithPageModelService overrides the default page model service binding.
func WithPageModelService(svc pagemodel.Service) Option {
	return func(c *Container) {
		c.pageSvc = svc
	}
}

// WithDeployService overrides the default deployment service binding.
func WithDeployService(svc deploy.Service) Option {
	return func(c *Container) {
		c.deploySvc = svc
	}
}

// WithDomainService overrides the default domain manager binding.
func WithDomainService(svc domains.Service) Option {
	return func(c *Container) {
		c.domainsSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:        cfg,
		cacheTTL:      cacheTTL,
		pageRepo:      pagemodel.NewMemoryPageRepository(),
		componentRepo: pagemodel.NewMemoryComponentRepository(),
		variationRepo: pagemodel.NewMemoryVariationRepository(),
		recordRepo:    deploy.NewMemoryRecordRepository(),
		clock:         time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if c.bunDB == nil && cfg.Storage.DSN != "" {
		db, err := OpenDatabase(cfg.Storage)
		if err != nil {
			return nil, err
		}
		c.bunDB = db
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureHosting()
	c.configureServices()

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.logProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	switch c.Config.Logging.Provider {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.logProvider = provider
	case "console", "":
		c.logProvider = console.NewProvider(console.Options{})
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cacheCfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cacheCfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cacheCfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}

	bundle := pagemodel.NewBunPageModelRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.pageRepo = bundle.Pages()
	c.componentRepo = bundle.Components()
	c.variationRepo = bundle.Variations()
	c.recordRepo = deploy.NewBunRecordRepository(c.bunDB)
}

func (c *Container) configureHosting() {
	if c.hostingClient != nil {
		return
	}

	clientOpts := []hosting.HTTPClientOption{
		hosting.WithLogger(logging.HostingLogger(c.logProvider)),
	}
	if c.Config.Hosting.HTTPTimeout > 0 {
		clientOpts = append(clientOpts, hosting.WithHTTPClient(&http.Client{
			Timeout: c.Config.Hosting.HTTPTimeout,
		}))
	}
	c.hostingClient = hosting.NewHTTPClient(c.Config.Hosting.BaseURL, c.Config.Hosting.Token, clientOpts...)
}

func (c *Container) configureServices() {
	if c.pageSvc == nil {
		c.pageSvc = pagemodel.NewService(
			c.pageRepo,
			c.componentRepo,
			c.variationRepo,
			pagemodel.WithLogger(logging.PageModelLogger(c.logProvider)),
			pagemodel.WithClock(c.clock),
		)
	}

	engineOpts := []inject.EngineOption{
		inject.WithLogger(logging.InjectLogger(c.logProvider)),
	}
	c.injectEngine = inject.NewEngine(engineOpts...)

	assembleOpts := []assemble.Option{
		assemble.WithLogger(logging.AssembleLogger(c.logProvider)),
		assemble.WithClock(c.clock),
	}
	if c.Config.Assemble.BaseURL != "" {
		assembleOpts = append(assembleOpts, assemble.WithBaseURL(c.Config.Assemble.BaseURL))
	}
	if c.Config.Features.Themes && c.Config.Assemble.ThemesBasePath != "" {
		assembleOpts = append(assembleOpts, assemble.WithTheming(assemble.ThemingConfig{
			Dir:     c.Config.Assemble.ThemesBasePath,
			Theme:   c.Config.Assemble.DefaultTheme,
			Variant: c.Config.Assemble.DefaultVariant,
		}))
	}
	c.assembler = assemble.New(c.injectEngine, assembleOpts...)

	if c.deploySvc == nil {
		c.deploySvc = deploy.NewService(
			c.hostingClient,
			c.pageSvc,
			c.assembler,
			c.recordRepo,
			c.Config.Deploy,
			deploy.WithLogger(logging.DeployLogger(c.logProvider)),
			deploy.WithClock(c.clock),
		)
	}

	if c.domainsSvc == nil {
		domainOpts := []domains.ServiceOption{
			domains.WithLogger(logging.DomainsLogger(c.logProvider)),
		}
		if c.prober != nil {
			domainOpts = append(domainOpts, domains.WithProber(c.prober))
		}
		c.domainsSvc = domains.NewService(
			c.hostingClient,
			c.Config.Hosting,
			c.Config.Domains.ProbeTimeout,
			domainOpts...,
		)
	}
}

// SyncTemplates loads variation templates from the configured directory and
// registers them with the page model service. It is a no-op when templates
// are disabled or no directory is set.
func (c *Container) SyncTemplates(ctx context.Context) (int, error) {
	if !c.Config.Templates.Enabled || c.Config.Templates.Dir == "" {
		return 0, nil
	}
	catalog := pagemodel.NewTemplateCatalog(os.DirFS(c.Config.Templates.Dir))
	return catalog.Sync(ctx, c.pageSvc)
}

// LoggerProvider exposes the configured logger provider, possibly nil when
// logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.logProvider
}

// PageModelService returns the configured page model service.
func (c *Container) PageModelService() pagemodel.Service {
	return c.pageSvc
}

// InjectEngine returns the content injection engine.
func (c *Container) InjectEngine() *inject.Engine {
	return c.injectEngine
}

// Assembler returns the asset assembler.
func (c *Container) Assembler() *assemble.Assembler {
	return c.assembler
}

// DeployService returns the deployment orchestrator.
func (c *Container) DeployService() deploy.Service {
	return c.deploySvc
}

// DomainService returns the domain manager.
func (c *Container) DomainService() domains.Service {
	return c.domainsSvc
}

// HostingClient exposes the hosting API client.
func (c *Container) HostingClient() hosting.Client {
	return c.hostingClient
}

// DeploymentRecords exposes the deployment record repository.
func (c *Container) DeploymentRecords() deploy.RecordRepository {
	return c.recordRepo
}
