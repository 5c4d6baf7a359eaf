package domains

import (
	"fmt"
	"regexp"
	"strings"
)

const maxDomainLength = 253

var labelPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,63}$`)

// DomainError reports a hostname the manager cannot work with. It carries
// NextSteps so callers can show the owner what to fix.
type DomainError struct {
	Domain    string
	Reason    string
	NextSteps []string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain %q rejected: %s", e.Domain, e.Reason)
}

// Normalize lowercases a hostname and strips surrounding whitespace, a
// leading scheme, and a trailing dot.
func Normalize(domain string) string {
	normalized := strings.ToLower(strings.TrimSpace(domain))
	normalized = strings.TrimPrefix(normalized, "https://")
	normalized = strings.TrimPrefix(normalized, "http://")
	normalized = strings.TrimSuffix(normalized, "/")
	normalized = strings.TrimSuffix(normalized, ".")
	return normalized
}

// Classify validates a hostname and buckets it as apex or subdomain. The
// grammar is strict: 2 or more labels of 1 to 63 characters from
// [a-zA-Z0-9-], at most 253 characters overall.
func Classify(domain string) (Classification, error) {
	normalized := Normalize(domain)
	if normalized == "" {
		return "", &DomainError{
			Domain:    domain,
			Reason:    "hostname is empty",
			NextSteps: []string{"enter the domain you want to connect, e.g. example.com"},
		}
	}
	if len(normalized) > maxDomainLength {
		return "", &DomainError{
			Domain:    domain,
			Reason:    fmt.Sprintf("hostname exceeds %d characters", maxDomainLength),
			NextSteps: []string{"use a shorter hostname"},
		}
	}

	labels := strings.Split(normalized, ".")
	if len(labels) < 2 {
		return "", &DomainError{
			Domain:    domain,
			Reason:    "hostname needs at least two labels",
			NextSteps: []string{"include the registrable domain, e.g. example.com instead of example"},
		}
	}
	for _, label := range labels {
		if !labelPattern.MatchString(label) {
			return "", &DomainError{
				Domain:    domain,
				Reason:    fmt.Sprintf("label %q is invalid", label),
				NextSteps: []string{"labels may only contain letters, digits and hyphens, 1 to 63 characters each"},
			}
		}
	}

	if len(labels) == 2 {
		return ClassificationApex, nil
	}
	return ClassificationSubdomain, nil
}
