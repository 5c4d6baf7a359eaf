package domains

// Classification buckets a hostname by label count. Two labels is an apex
// domain, anything deeper is a subdomain.
type Classification string

const (
	ClassificationApex      Classification = "apex"
	ClassificationSubdomain Classification = "subdomain"
)

// Strategy names the DNS wiring a domain setup recommends.
type Strategy string

const (
	// StrategyNameservers delegates the whole zone to the provider.
	StrategyNameservers Strategy = "nameservers"
	// StrategyDNSRecords keeps the zone where it is and adds individual
	// records pointing at the provider.
	StrategyDNSRecords Strategy = "dns_records"
)

// VerificationState is the domain's position in the verification machine.
// active requires DNS configured, a certificate issued, and SSL enforced.
type VerificationState string

const (
	VerificationNotConfigured VerificationState = "not_configured"
	VerificationDNSPending    VerificationState = "dns_pending"
	VerificationSSLPending    VerificationState = "ssl_pending"
	VerificationActive        VerificationState = "active"
	VerificationError         VerificationState = "error"
)

// RecordInstruction is one DNS record the domain owner must create at their
// registrar when the zone is not delegated.
type RecordInstruction struct {
	Type     string `json:"type"`
	Hostname string `json:"hostname"`
	Value    string `json:"value"`
	TTL      int    `json:"ttl"`
}

// SetupResult is the synchronous answer to a domain setup call. Records and
// Nameservers are mutually exclusive by strategy. Diagnostics collects
// failures of fire-and-forget side effects; they never fail the setup.
type SetupResult struct {
	Domain         string              `json:"domain"`
	Classification Classification      `json:"classification"`
	Strategy       Strategy            `json:"strategy"`
	Records        []RecordInstruction `json:"records,omitempty"`
	Nameservers    []string            `json:"nameservers,omitempty"`
	Verification   VerificationState   `json:"verification"`
	Instructions   []string            `json:"instructions"`
	Diagnostics    []string            `json:"diagnostics,omitempty"`
}

// VerificationStatus reports where a domain sits in the verification machine
// and what the owner should do next.
type VerificationStatus struct {
	Domain            string            `json:"domain"`
	State             VerificationState `json:"state"`
	DNSConfigured     bool              `json:"dns_configured"`
	CertificateIssued bool              `json:"certificate_issued"`
	SSLEnabled        bool              `json:"ssl_enabled"`
	NextSteps         []string          `json:"next_steps"`
}
