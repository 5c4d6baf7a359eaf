package domains

import "fmt"

// setupInstructions renders the human-readable steps a domain owner follows
// after setup. The wording is registrar-agnostic.
func setupInstructions(result *SetupResult) []string {
	var steps []string

	switch result.Strategy {
	case StrategyNameservers:
		steps = append(steps,
			fmt.Sprintf("log in to the registrar that manages %s", result.Domain),
			"replace the domain's nameservers with:",
		)
		for _, ns := range result.Nameservers {
			steps = append(steps, "  "+ns)
		}
		steps = append(steps, "nameserver changes can take up to 48 hours to propagate")
	case StrategyDNSRecords:
		steps = append(steps, fmt.Sprintf("open the DNS settings for %s at your registrar", result.Domain))
		for _, record := range result.Records {
			steps = append(steps, fmt.Sprintf("  add a %s record for %s pointing to %s (TTL %d)",
				record.Type, record.Hostname, record.Value, record.TTL))
		}
		steps = append(steps, "DNS record changes usually propagate within an hour")
	}

	steps = append(steps, "run domain verification once the changes are in place")
	return steps
}
