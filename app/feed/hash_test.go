package feed

import (
	"testing"
)

func TestItemHashDeterministic(t *testing.T) {
	item := Item{GUID: "https://example.com/post-1"}

	first := ItemHash("feed-a", item)
	second := ItemHash("feed-a", item)
	if first != second {
		t.Error("Hash for a fixed GUID must be identical across calls")
	}

	// A GUID-derived hash is content-addressed: the feed id plays no part.
	other := ItemHash("feed-b", item)
	if first != other {
		t.Error("Hash for a fixed GUID must not depend on the feed id")
	}

	if len(first) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(first))
	}
}

func TestItemHashWithoutGUID(t *testing.T) {
	item := Item{Link: "https://Example.com/post-1/"}

	a := ItemHash("feed-a", item)
	b := ItemHash("feed-b", item)
	if a == b {
		t.Error("Composite hash must differ across feeds")
	}

	// Normalized link variants collapse to the same hash.
	variant := Item{Link: "https://example.com/post-1#section"}
	if ItemHash("feed-a", variant) != a {
		t.Error("Link normalization should collapse host case, trailing slash and fragment")
	}
}

func TestNormalizeLink(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"HTTPS://Example.COM/Path/", "https://example.com/Path"},
		{"https://example.com/a#frag", "https://example.com/a"},
		{"  https://example.com/a  ", "https://example.com/a"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeLink(tt.in); got != tt.expected {
			t.Errorf("NormalizeLink(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}
