package logging

import (
	"context"

	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const (
	rootModule      = "sitebuilder"
	pagemodelModule = "sitebuilder.pagemodel"
	injectModule    = "sitebuilder.inject"
	assembleModule  = "sitebuilder.assemble"
	deployModule    = "sitebuilder.deploy"
	domainsModule   = "sitebuilder.domains"
	hostingModule   = "sitebuilder.hosting"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// PageModelLogger returns the logger namespace reserved for page model services.
func PageModelLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagemodelModule)
}

// InjectLogger returns the logger namespace reserved for the content injection engine.
func InjectLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, injectModule)
}

// AssembleLogger returns the logger namespace reserved for the asset assembler.
func AssembleLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, assembleModule)
}

// DeployLogger returns the logger namespace reserved for the deployment orchestrator.
func DeployLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, deployModule)
}

// DomainsLogger returns the logger namespace reserved for the domain manager.
func DomainsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, domainsModule)
}

// HostingLogger returns the logger namespace reserved for the hosting API client.
func HostingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, hostingModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
