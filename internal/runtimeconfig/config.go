package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrHostingBaseURLRequired indicates the hosting API cannot be reached without a base URL.
var ErrHostingBaseURLRequired = errors.New("sitebuilder config: hosting base URL is required when deploys are enabled")

// ErrHostingTokenRequired indicates the hosting API requires an access token.
var ErrHostingTokenRequired = errors.New("sitebuilder config: hosting access token is required when deploys are enabled")

// ErrTemplatesDirRequired ensures the variation template catalog has a source directory.
var ErrTemplatesDirRequired = errors.New("sitebuilder config: templates directory is required when template loading is enabled")

var ErrDeployRetryBudgetInvalid = errors.New("sitebuilder config: deploy retry budget must be zero or positive")
var ErrDeployPollIntervalInvalid = errors.New("sitebuilder config: deploy poll interval must be positive")
var ErrDeployPollTimeoutInvalid = errors.New("sitebuilder config: deploy poll timeout must exceed the poll interval")
var ErrDomainsProbeTimeoutInvalid = errors.New("sitebuilder config: domain probe timeout must be positive")
var ErrAnycastAddressesRequired = errors.New("sitebuilder config: two anycast A-record addresses are required for apex fallback")
var ErrLoggingProviderRequired = errors.New("sitebuilder config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("sitebuilder config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("sitebuilder config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("sitebuilder config: logging format is invalid")
var ErrCommandsRequireDeploys = errors.New("sitebuilder config: command auto-registration requires deploys to be enabled")

// Config aggregates feature flags and adapter bindings for the sitebuilder module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled   bool
	Storage   StorageConfig
	Cache     CacheConfig
	Hosting   HostingConfig
	Assemble  AssembleConfig
	Deploy    DeployConfig
	Domains   DomainsConfig
	Templates TemplatesConfig
	Features  Features
	Commands  CommandsConfig
	Logging   LoggingConfig
}

// StorageConfig lists identifiers for storage-related dependencies. When DSN
// is set the container opens its own connection; hosts that manage their own
// pool leave it empty and inject a database instead.
type StorageConfig struct {
	Provider string
	Driver   string
	DSN      string
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// HostingConfig captures connectivity and platform facts for the hosting provider API.
type HostingConfig struct {
	BaseURL string
	Token   string
	// PlatformDomain is the provider-owned apex under which generated site
	// hostnames live, e.g. "examplehost.app".
	PlatformDomain string
	// AnycastAddresses are the fixed A-record targets used when an apex domain
	// cannot delegate nameservers.
	AnycastAddresses []string
	// SupportsNameservers reports whether the provider accepts full DNS zone
	// delegation for apex domains.
	SupportsNameservers bool
	HTTPTimeout         time.Duration
}

// AssembleConfig captures behaviour for the asset assembler.
type AssembleConfig struct {
	BaseURL         string
	DefaultLanguage string
	ThemesBasePath  string
	DefaultTheme    string
	DefaultVariant  string
}

// DeployConfig captures retry, polling, and naming behaviour for the orchestrator.
type DeployConfig struct {
	MaxRetries     int
	RetryBackoff   time.Duration
	PollInterval   time.Duration
	PollTimeout    time.Duration
	MaxSiteNameLen int
	// ArchiveDir is where fallback archives are written when every remote
	// strategy is exhausted.
	ArchiveDir string
}

// DomainsConfig captures behaviour for domain verification.
type DomainsConfig struct {
	ProbeTimeout time.Duration
}

// TemplatesConfig captures filesystem behaviour for variation template loading.
type TemplatesConfig struct {
	Enabled bool
	Dir     string
	Pattern string
}

// Features toggles module functionality.
type Features struct {
	Deploys  bool
	Domains  bool
	Themes   bool
	Markdown bool
	Logger   bool
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for an embedded sitebuilder runtime.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Storage: StorageConfig{
			Provider: "bun",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Hosting: HostingConfig{
			AnycastAddresses:    []string{"75.2.60.5", "99.83.190.102"},
			SupportsNameservers: true,
			HTTPTimeout:         30 * time.Second,
		},
		Assemble: AssembleConfig{
			DefaultLanguage: "en",
			ThemesBasePath:  "themes",
		},
		Deploy: DeployConfig{
			MaxRetries:     3,
			RetryBackoff:   time.Second,
			PollInterval:   5 * time.Second,
			PollTimeout:    300 * time.Second,
			MaxSiteNameLen: 48,
			ArchiveDir:     "dist",
		},
		Domains: DomainsConfig{
			ProbeTimeout: 10 * time.Second,
		},
		Templates: TemplatesConfig{
			Dir:     "templates",
			Pattern: "*.tmpl",
		},
		Features: Features{},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Features.Deploys {
		if strings.TrimSpace(cfg.Hosting.BaseURL) == "" {
			return ErrHostingBaseURLRequired
		}
		if strings.TrimSpace(cfg.Hosting.Token) == "" {
			return ErrHostingTokenRequired
		}
	}
	if cfg.Commands.Enabled && cfg.Commands.AutoRegisterDispatcher && !cfg.Features.Deploys {
		return ErrCommandsRequireDeploys
	}
	if cfg.Templates.Enabled && strings.TrimSpace(cfg.Templates.Dir) == "" {
		return ErrTemplatesDirRequired
	}
	if cfg.Deploy.MaxRetries < 0 {
		return ErrDeployRetryBudgetInvalid
	}
	if cfg.Deploy.PollInterval <= 0 {
		return ErrDeployPollIntervalInvalid
	}
	if cfg.Deploy.PollTimeout <= cfg.Deploy.PollInterval {
		return ErrDeployPollTimeoutInvalid
	}
	if cfg.Domains.ProbeTimeout <= 0 {
		return ErrDomainsProbeTimeoutInvalid
	}
	if cfg.Features.Domains && !cfg.Hosting.SupportsNameservers && len(cfg.Hosting.AnycastAddresses) < 2 {
		return ErrAnycastAddressesRequired
	}
	if cfg.Features.Logger {
		provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider))
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
