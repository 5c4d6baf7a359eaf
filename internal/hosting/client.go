package hosting

import "context"

// Client is the hosting provider surface the deploy and domain layers build
// on. The HTTP implementation talks to the provider's REST API; tests swap in
// fakes.
type Client interface {
	// Sites
	CreateSite(ctx context.Context, name string) (*Site, error)
	GetSite(ctx context.Context, siteID string) (*Site, error)
	UpdateSite(ctx context.Context, siteID string, update SiteUpdate) (*Site, error)
	ListSites(ctx context.Context) ([]*Site, error)

	// Deploys
	CreateDeploy(ctx context.Context, siteID string, digests map[string]string) (*Deployment, error)
	CreateArchiveDeploy(ctx context.Context, siteID string, archive []byte) (*Deployment, error)
	UploadFile(ctx context.Context, deployID, path string, body []byte) error
	GetDeploy(ctx context.Context, deployID string) (*Deployment, error)

	// DNS and SSL
	CreateDNSZone(ctx context.Context, domain string) (*DNSZone, error)
	CreateDNSRecord(ctx context.Context, zoneID string, record DNSRecord) (*DNSRecord, error)
	ProvisionCertificate(ctx context.Context, siteID string) (*Certificate, error)
	GetCertificate(ctx context.Context, siteID string) (*Certificate, error)
}
