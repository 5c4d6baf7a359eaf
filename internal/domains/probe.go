package domains

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// ProbeResult captures one reachability check against a configured domain.
type ProbeResult struct {
	Reachable  bool
	StatusCode int
	Detail     string
}

// Prober checks whether a domain answers HTTP traffic. Tests swap in fakes.
type Prober interface {
	Check(ctx context.Context, domain string) ProbeResult
}

// ProberOption configures the HTTP prober.
type ProberOption func(*HTTPProber)

// WithProbeClient overrides the HTTP client used for probes.
func WithProbeClient(client *http.Client) ProberOption {
	return func(p *HTTPProber) {
		if client != nil {
			p.client = client
		}
	}
}

// WithProbeLogger sets the prober logger.
func WithProbeLogger(logger interfaces.Logger) ProberOption {
	return func(p *HTTPProber) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// HTTPProber issues a bounded HEAD request against the domain. A redirect to
// the requested domain or to the platform's own hosting domain counts as
// reachable.
type HTTPProber struct {
	client         *http.Client
	platformDomain string
	logger         interfaces.Logger
}

// NewHTTPProber builds a prober with the given timeout. Redirects are not
// followed; the Location header is inspected instead.
func NewHTTPProber(platformDomain string, timeout time.Duration, opts ...ProberOption) *HTTPProber {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	p := &HTTPProber{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		platformDomain: platformDomain,
		logger:         logging.NoOp(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *HTTPProber) Check(ctx context.Context, domain string) ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, "https://"+domain, nil)
	if err != nil {
		return ProbeResult{Detail: "invalid probe URL: " + err.Error()}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("domain probe failed", "domain", domain, "error", err.Error())
		return ProbeResult{Detail: "domain did not answer: " + err.Error()}
	}
	defer resp.Body.Close()

	result := ProbeResult{StatusCode: resp.StatusCode}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		result.Reachable = true
		result.Detail = "domain is serving content"
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		location := resp.Header.Get("Location")
		if p.redirectMatches(location, domain) {
			result.Reachable = true
			result.Detail = "domain is redirecting correctly"
		} else {
			result.Detail = "domain redirects somewhere unexpected: " + location
		}
	default:
		result.Detail = "domain answered with status " + resp.Status
	}
	return result
}

// redirectMatches reports whether a Location header points back at the
// requested domain or at the platform's hosting domain.
func (p *HTTPProber) redirectMatches(location, domain string) bool {
	if location == "" {
		return false
	}
	parsed, err := url.Parse(location)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	if host == "" {
		// Relative redirect stays on the requested domain.
		return true
	}
	if host == domain || strings.HasSuffix(host, "."+domain) {
		return true
	}
	if p.platformDomain != "" && (host == p.platformDomain || strings.HasSuffix(host, "."+p.platformDomain)) {
		return true
	}
	return false
}
