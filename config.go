package sitebuilder

import "github.com/goliatone/go-sitebuilder/internal/runtimeconfig"

var (
	ErrHostingBaseURLRequired     = runtimeconfig.ErrHostingBaseURLRequired
	ErrHostingTokenRequired       = runtimeconfig.ErrHostingTokenRequired
	ErrTemplatesDirRequired       = runtimeconfig.ErrTemplatesDirRequired
	ErrDeployRetryBudgetInvalid   = runtimeconfig.ErrDeployRetryBudgetInvalid
	ErrDeployPollIntervalInvalid  = runtimeconfig.ErrDeployPollIntervalInvalid
	ErrDeployPollTimeoutInvalid   = runtimeconfig.ErrDeployPollTimeoutInvalid
	ErrDomainsProbeTimeoutInvalid = runtimeconfig.ErrDomainsProbeTimeoutInvalid
	ErrAnycastAddressesRequired   = runtimeconfig.ErrAnycastAddressesRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
	ErrCommandsRequireDeploys     = runtimeconfig.ErrCommandsRequireDeploys
)

type (
	Config          = runtimeconfig.Config
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	HostingConfig   = runtimeconfig.HostingConfig
	AssembleConfig  = runtimeconfig.AssembleConfig
	DeployConfig    = runtimeconfig.DeployConfig
	DomainsConfig   = runtimeconfig.DomainsConfig
	TemplatesConfig = runtimeconfig.TemplatesConfig
	Features        = runtimeconfig.Features
	CommandsConfig  = runtimeconfig.CommandsConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
