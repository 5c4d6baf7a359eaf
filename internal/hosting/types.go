package hosting

import "time"

// Site is a remote static-hosting site.
type Site struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	URL          string   `json:"url"`
	CustomDomain string   `json:"custom_domain,omitempty"`
	Aliases      []string `json:"domain_aliases,omitempty"`
	ForceSSL     bool     `json:"force_ssl"`
}

// DeployState is the remote build lifecycle. Transitions are forward-only:
// queued, building, then ready or error.
type DeployState string

const (
	DeployQueued   DeployState = "queued"
	DeployBuilding DeployState = "building"
	DeployReady    DeployState = "ready"
	DeployError    DeployState = "error"
)

// Terminal reports whether the state ends a build.
func (s DeployState) Terminal() bool {
	return s == DeployReady || s == DeployError
}

// Deployment is one remote build. Required lists the content digests the host
// does not yet have; only those need uploading.
type Deployment struct {
	ID           string      `json:"id"`
	SiteID       string      `json:"site_id"`
	State        DeployState `json:"state"`
	URL          string      `json:"url,omitempty"`
	Required     []string    `json:"required,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// SiteUpdate carries the mutable site settings. Nil fields are left
// untouched.
type SiteUpdate struct {
	CustomDomain *string  `json:"custom_domain,omitempty"`
	Aliases      []string `json:"domain_aliases,omitempty"`
	ForceSSL     *bool    `json:"force_ssl,omitempty"`
}

// DNSZone is a provider-managed zone with its assigned nameservers.
type DNSZone struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	DNSServers []string `json:"dns_servers"`
}

// DNSRecord is one record in a provider-managed zone.
type DNSRecord struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type"`
	Hostname string `json:"hostname"`
	Value    string `json:"value"`
	TTL      int    `json:"ttl,omitempty"`
}

// Certificate reports SSL provisioning state for a site's domains.
type Certificate struct {
	State     string    `json:"state"`
	Domains   []string  `json:"domains"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Issued reports whether the certificate is ready to serve traffic.
func (c *Certificate) Issued() bool {
	return c != nil && c.State == "issued"
}
