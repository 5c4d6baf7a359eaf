package runtimeconfig

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateDeployRequiresHosting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Deploys = true

	if err := cfg.Validate(); !errors.Is(err, ErrHostingBaseURLRequired) {
		t.Fatalf("expected ErrHostingBaseURLRequired, got %v", err)
	}

	cfg.Hosting.BaseURL = "https://api.examplehost.com"
	if err := cfg.Validate(); !errors.Is(err, ErrHostingTokenRequired) {
		t.Fatalf("expected ErrHostingTokenRequired, got %v", err)
	}

	cfg.Hosting.Token = "token"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidatePollingBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Deploy.PollInterval = 0
	if err := cfg.Validate(); !errors.Is(err, ErrDeployPollIntervalInvalid) {
		t.Fatalf("expected ErrDeployPollIntervalInvalid, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Deploy.PollTimeout = cfg.Deploy.PollInterval
	if err := cfg.Validate(); !errors.Is(err, ErrDeployPollTimeoutInvalid) {
		t.Fatalf("expected ErrDeployPollTimeoutInvalid, got %v", err)
	}
}

func TestValidateApexFallbackNeedsAnycast(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Domains = true
	cfg.Hosting.SupportsNameservers = false
	cfg.Hosting.AnycastAddresses = []string{"75.2.60.5"}

	if err := cfg.Validate(); !errors.Is(err, ErrAnycastAddressesRequired) {
		t.Fatalf("expected ErrAnycastAddressesRequired, got %v", err)
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}

	cfg.Logging.Format = "pretty"
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestDefaultDeployTimings(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Deploy.RetryBackoff != time.Second {
		t.Fatalf("unexpected retry backoff: %v", cfg.Deploy.RetryBackoff)
	}
	if cfg.Deploy.PollInterval != 5*time.Second {
		t.Fatalf("unexpected poll interval: %v", cfg.Deploy.PollInterval)
	}
	if cfg.Deploy.PollTimeout != 300*time.Second {
		t.Fatalf("unexpected poll timeout: %v", cfg.Deploy.PollTimeout)
	}
}
