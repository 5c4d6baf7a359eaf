package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// SiteSuffix returns a short stable uniqueness token derived from a page id,
// appended to normalized site names so repeated publishes of the same page map
// to the same remote site name.
func SiteSuffix(pageID uuid.UUID) string {
	uid := UUID("sitebuilder:site:" + pageID.String())
	token := strings.ReplaceAll(uid.String(), "-", "")
	if len(token) > 8 {
		token = token[:8]
	}
	return token
}

// VariationUUID derives the identity of a component variation from its
// (type, variation number) pair.
func VariationUUID(componentType string, variation int) uuid.UUID {
	return UUID("sitebuilder:variation:" + strings.ToLower(strings.TrimSpace(componentType)) + ":" + strconv.Itoa(variation))
}

// AttemptUUID derives a deployment attempt identity from the page id and a
// monotonically increasing attempt ordinal.
func AttemptUUID(pageID uuid.UUID, ordinal int) uuid.UUID {
	return UUID("sitebuilder:attempt:" + pageID.String() + ":" + strconv.Itoa(ordinal))
}
