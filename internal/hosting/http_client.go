package hosting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// HTTPClient implements Client over the provider's REST API. The underlying
// http.Client is injected so callers own timeouts and transport settings.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     interfaces.Logger
}

// HTTPClientOption configures an HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient replaces the transport. A nil client is ignored.
func WithHTTPClient(client *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) HTTPClientOption {
	return func(c *HTTPClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewHTTPClient builds a provider client for the given API base and token.
func NewHTTPClient(baseURL, token string, opts ...HTTPClientOption) *HTTPClient {
	client := &HTTPClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      token,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *HTTPClient) CreateSite(ctx context.Context, name string) (*Site, error) {
	var site Site
	err := c.doJSON(ctx, http.MethodPost, "/sites", map[string]string{"name": name}, &site)
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (c *HTTPClient) GetSite(ctx context.Context, siteID string) (*Site, error) {
	var site Site
	err := c.doJSON(ctx, http.MethodGet, "/sites/"+url.PathEscape(siteID), nil, &site)
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (c *HTTPClient) UpdateSite(ctx context.Context, siteID string, update SiteUpdate) (*Site, error) {
	var site Site
	err := c.doJSON(ctx, http.MethodPatch, "/sites/"+url.PathEscape(siteID), update, &site)
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (c *HTTPClient) ListSites(ctx context.Context) ([]*Site, error) {
	var sites []*Site
	if err := c.doJSON(ctx, http.MethodGet, "/sites", nil, &sites); err != nil {
		return nil, err
	}
	return sites, nil
}

// CreateDeploy submits the path digest manifest. The response's Required
// field lists digests the host is missing.
func (c *HTTPClient) CreateDeploy(ctx context.Context, siteID string, digests map[string]string) (*Deployment, error) {
	payload := map[string]any{"files": digests}
	var deploy Deployment
	endpoint := "/sites/" + url.PathEscape(siteID) + "/deploys"
	if err := c.doJSON(ctx, http.MethodPost, endpoint, payload, &deploy); err != nil {
		return nil, err
	}
	return &deploy, nil
}

// CreateArchiveDeploy uploads a full source archive for a server-side build.
func (c *HTTPClient) CreateArchiveDeploy(ctx context.Context, siteID string, archive []byte) (*Deployment, error) {
	endpoint := "/sites/" + url.PathEscape(siteID) + "/deploys"
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(archive))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/zip")

	var deploy Deployment
	if err := c.do(req, &deploy); err != nil {
		return nil, err
	}
	return &deploy, nil
}

// UploadFile sends one file's raw bytes for a pending deploy.
func (c *HTTPClient) UploadFile(ctx context.Context, deployID, filePath string, body []byte) error {
	endpoint := "/deploys/" + url.PathEscape(deployID) + "/files/" + strings.TrimPrefix(filePath, "/")
	req, err := c.newRequest(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	return c.do(req, nil)
}

func (c *HTTPClient) GetDeploy(ctx context.Context, deployID string) (*Deployment, error) {
	var deploy Deployment
	if err := c.doJSON(ctx, http.MethodGet, "/deploys/"+url.PathEscape(deployID), nil, &deploy); err != nil {
		return nil, err
	}
	return &deploy, nil
}

func (c *HTTPClient) CreateDNSZone(ctx context.Context, domain string) (*DNSZone, error) {
	var zone DNSZone
	if err := c.doJSON(ctx, http.MethodPost, "/dns_zones", map[string]string{"name": domain}, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

func (c *HTTPClient) CreateDNSRecord(ctx context.Context, zoneID string, record DNSRecord) (*DNSRecord, error) {
	var created DNSRecord
	endpoint := "/dns_zones/" + url.PathEscape(zoneID) + "/dns_records"
	if err := c.doJSON(ctx, http.MethodPost, endpoint, record, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) ProvisionCertificate(ctx context.Context, siteID string) (*Certificate, error) {
	var cert Certificate
	endpoint := "/sites/" + url.PathEscape(siteID) + "/ssl"
	if err := c.doJSON(ctx, http.MethodPost, endpoint, nil, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}

func (c *HTTPClient) GetCertificate(ctx context.Context, siteID string) (*Certificate, error) {
	var cert Certificate
	endpoint := "/sites/" + url.PathEscape(siteID) + "/ssl"
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}

// doJSON marshals an optional body, executes the request, and decodes the
// JSON response into result.
func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, result)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", c.baseURL, err)
	}
	base.Path = path.Join(strings.TrimSuffix(base.Path, "/"), strings.TrimPrefix(endpoint, "/"))

	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, base.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request %s %s: %w", method, endpoint, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", "sitebuilder/1.0")
	return req, nil
}

func (c *HTTPClient) do(req *http.Request, result any) error {
	endpoint := req.URL.Path

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		limited, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    extractMessage(limited),
			Endpoint:   endpoint,
		}
		c.logger.Warn("host api error",
			"method", req.Method,
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"retryable", apiErr.Retryable(),
		)
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
	}
	return nil
}

// extractMessage pulls the provider's error message out of a JSON error body,
// falling back to the raw text.
func extractMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return strings.TrimSpace(strings.ReplaceAll(string(body), "\n", " "))
}
