package deploy

import (
	"strconv"
	"strings"

	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/identity"
)

// siteName derives the remote site name for a page: the normalized slug,
// truncated to fit the length budget, suffixed with a deterministic
// uniqueness token so two pages with the same slug never collide.
func siteName(pageSlug string, pageID uuid.UUID, maxLen int) string {
	normalized, err := slug.Normalize(pageSlug)
	if err != nil || normalized == "" {
		normalized = sanitizeName(pageSlug)
	}
	normalized = sanitizeName(normalized)
	if normalized == "" {
		normalized = "page"
	}

	suffix := identity.SiteSuffix(pageID)

	budget := maxLen - len(suffix) - 1
	if budget < 1 {
		budget = 1
	}
	if len(normalized) > budget {
		normalized = strings.Trim(normalized[:budget], "-")
		if normalized == "" {
			normalized = "page"
		}
	}

	return normalized + "-" + suffix
}

// derivedName produces a replacement site name when updating an existing
// site fails and a fresh site must be created under a new identity.
func derivedName(existing string, attempt int, maxLen int) string {
	base := sanitizeName(existing)
	if base == "" {
		base = "page"
	}
	suffix := "-r" + strconv.Itoa(attempt)
	budget := maxLen - len(suffix)
	if budget < 1 {
		budget = 1
	}
	if len(base) > budget {
		base = strings.Trim(base[:budget], "-")
	}
	return base + suffix
}

// sanitizeName lowercases and drops anything outside [a-z0-9-].
func sanitizeName(input string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			builder.WriteRune(r)
		case r == ' ', r == '_', r == '.':
			builder.WriteByte('-')
		}
	}
	return strings.Trim(builder.String(), "-")
}
