package feed

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// NormalizeDate parses a publication timestamp from ISO-8601, RFC-2822 or
// any of the other formats dateparse understands, normalized to UTC.
// Unparseable or missing values fall back to the given ingestion time,
// never to a zero value.
func NormalizeDate(value string, fallback time.Time) time.Time {
	v := strings.TrimSpace(value)
	if v == "" {
		return fallback.UTC()
	}

	t, err := dateparse.ParseAny(v)
	if err != nil {
		return fallback.UTC()
	}

	return t.UTC()
}

// resolveDate prefers an already-parsed timestamp, then the raw string,
// then the fallback.
func resolveDate(parsed *time.Time, raw string, fallback time.Time) time.Time {
	if parsed != nil {
		return parsed.UTC()
	}
	return NormalizeDate(raw, fallback)
}
