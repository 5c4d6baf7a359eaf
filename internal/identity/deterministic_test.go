package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDDeterministic(t *testing.T) {
	a := UUID("sitebuilder:variation:hero:1")
	b := UUID("sitebuilder:variation:hero:1")
	if a != b {
		t.Fatalf("expected stable UUID, got %s and %s", a, b)
	}
	if a == uuid.Nil {
		t.Fatal("expected non-nil UUID")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected Nil for blank key, got %s", got)
	}
}

func TestSiteSuffixStableAndShort(t *testing.T) {
	pageID := uuid.New()
	first := SiteSuffix(pageID)
	second := SiteSuffix(pageID)
	if first != second {
		t.Fatalf("suffix must be stable: %q vs %q", first, second)
	}
	if len(first) != 8 {
		t.Fatalf("expected 8-char suffix, got %q", first)
	}
	if other := SiteSuffix(uuid.New()); other == first {
		t.Fatalf("distinct pages should not share a suffix")
	}
}

func TestVariationUUIDNormalizesType(t *testing.T) {
	if VariationUUID(" Hero ", 2) != VariationUUID("hero", 2) {
		t.Fatal("variation identity should ignore case and padding")
	}
	if VariationUUID("hero", 2) == VariationUUID("hero", 3) {
		t.Fatal("variation numbers must produce distinct ids")
	}
}
