package domains

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/goliatone/go-sitebuilder/internal/hosting"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/runtimeconfig"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const recordTTL = 3600

// Service attaches custom domains to deployed sites and tracks their
// verification state.
type Service interface {
	SetupDomain(ctx context.Context, siteID, domain string) (*SetupResult, error)
	VerifyDomain(ctx context.Context, siteID, domain string) (*VerificationStatus, error)
}

// ServiceOption configures the domain manager.
type ServiceOption func(*service)

// WithLogger sets the manager logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProber overrides the reachability prober.
func WithProber(prober Prober) ServiceOption {
	return func(s *service) {
		if prober != nil {
			s.prober = prober
		}
	}
}

// NewService wires the domain manager against the hosting client.
func NewService(client hosting.Client, cfg runtimeconfig.HostingConfig, probeTimeout time.Duration, opts ...ServiceOption) Service {
	s := &service{
		client: client,
		cfg:    cfg,
		prober: NewHTTPProber(cfg.PlatformDomain, probeTimeout),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type service struct {
	client hosting.Client
	cfg    runtimeconfig.HostingConfig
	prober Prober
	logger interfaces.Logger
}

// SetupDomain registers a domain on a site and returns the DNS wiring the
// owner must perform. Alias registration, certificate provisioning and the
// force-SSL toggle are fire-and-forget: their failures land in Diagnostics
// and never block the instructions.
func (s *service) SetupDomain(ctx context.Context, siteID, domain string) (*SetupResult, error) {
	normalized := Normalize(domain)
	classification, err := Classify(normalized)
	if err != nil {
		return nil, err
	}

	site, err := s.client.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}

	customDomain := normalized
	if _, err := s.client.UpdateSite(ctx, siteID, hosting.SiteUpdate{CustomDomain: &customDomain}); err != nil {
		return nil, err
	}

	result := &SetupResult{
		Domain:         normalized,
		Classification: classification,
		Verification:   VerificationDNSPending,
	}

	switch classification {
	case ClassificationSubdomain:
		result.Strategy = StrategyDNSRecords
		result.Records = []RecordInstruction{{
			Type:     "CNAME",
			Hostname: normalized,
			Value:    siteHostname(site),
			TTL:      recordTTL,
		}}
	case ClassificationApex:
		s.planApex(ctx, site, result)
	}

	s.applySideEffects(ctx, site, result)

	result.Instructions = setupInstructions(result)
	return result, nil
}

// planApex prefers full zone delegation; when the provider cannot host the
// zone the plan falls back to fixed A records at the anycast addresses.
func (s *service) planApex(ctx context.Context, site *hosting.Site, result *SetupResult) {
	if s.cfg.SupportsNameservers {
		zone, err := s.client.CreateDNSZone(ctx, result.Domain)
		if err == nil {
			result.Strategy = StrategyNameservers
			result.Nameservers = zone.DNSServers
			return
		}
		s.logger.Warn("zone delegation unavailable, falling back to A records",
			"domain", result.Domain,
			"error", err.Error(),
		)
		result.Diagnostics = append(result.Diagnostics, "zone delegation unavailable: "+err.Error())
	}

	result.Strategy = StrategyDNSRecords
	for _, address := range s.cfg.AnycastAddresses {
		result.Records = append(result.Records, RecordInstruction{
			Type:     "A",
			Hostname: result.Domain,
			Value:    address,
			TTL:      recordTTL,
		})
	}
	result.Records = append(result.Records, RecordInstruction{
		Type:     "CNAME",
		Hostname: "www." + result.Domain,
		Value:    siteHostname(site),
		TTL:      recordTTL,
	})
}

// applySideEffects runs the non-critical follow-ups. Each failure is logged
// and collected; none aborts the setup.
func (s *service) applySideEffects(ctx context.Context, site *hosting.Site, result *SetupResult) {
	if result.Classification == ClassificationApex {
		aliases := append(append([]string{}, site.Aliases...), "www."+result.Domain)
		if _, err := s.client.UpdateSite(ctx, site.ID, hosting.SiteUpdate{Aliases: aliases}); err != nil {
			s.logger.Warn("alias registration failed", "domain", result.Domain, "error", err.Error())
			result.Diagnostics = append(result.Diagnostics, "www alias not registered: "+err.Error())
		}
	}

	forceSSL := true
	if _, err := s.client.UpdateSite(ctx, site.ID, hosting.SiteUpdate{ForceSSL: &forceSSL}); err != nil {
		s.logger.Warn("force-ssl toggle failed", "domain", result.Domain, "error", err.Error())
		result.Diagnostics = append(result.Diagnostics, "force SSL not enabled yet: "+err.Error())
	}

	if _, err := s.client.ProvisionCertificate(ctx, site.ID); err != nil {
		s.logger.Warn("certificate provisioning failed", "domain", result.Domain, "error", err.Error())
		result.Diagnostics = append(result.Diagnostics, "certificate provisioning deferred: "+err.Error())
	}
}

// VerifyDomain reports where a domain sits in the verification machine.
// active requires DNS resolving, an issued certificate and SSL enforcement.
func (s *service) VerifyDomain(ctx context.Context, siteID, domain string) (*VerificationStatus, error) {
	normalized := Normalize(domain)
	if _, err := Classify(normalized); err != nil {
		return nil, err
	}

	site, err := s.client.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}

	status := &VerificationStatus{
		Domain:     normalized,
		SSLEnabled: site.ForceSSL,
	}

	if site.CustomDomain == "" {
		status.State = VerificationNotConfigured
		status.NextSteps = []string{"run domain setup to attach " + normalized + " to the site"}
		return status, nil
	}

	probe := s.prober.Check(ctx, normalized)
	status.DNSConfigured = probe.Reachable

	cert, err := s.client.GetCertificate(ctx, siteID)
	if err != nil {
		if !hosting.IsNotFound(err) {
			s.logger.Warn("certificate lookup failed", "domain", normalized, "error", err.Error())
		}
	} else {
		status.CertificateIssued = cert.Issued()
	}

	switch {
	case !status.DNSConfigured:
		status.State = VerificationDNSPending
		status.NextSteps = []string{
			"create the DNS records from the setup instructions at your registrar",
			fmt.Sprintf("DNS changes can take up to 48 hours to propagate (%s)", probe.Detail),
		}
	case !status.CertificateIssued || !status.SSLEnabled:
		status.State = VerificationSSLPending
		status.NextSteps = []string{"certificate issuance is in progress, check again in a few minutes"}
	default:
		status.State = VerificationActive
		status.NextSteps = []string{"no action needed, the domain is live"}
	}
	return status, nil
}

// siteHostname extracts the generated hostname a CNAME should target.
func siteHostname(site *hosting.Site) string {
	if parsed, err := url.Parse(site.URL); err == nil && parsed.Hostname() != "" {
		return parsed.Hostname()
	}
	return site.Name
}
