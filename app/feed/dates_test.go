package feed

import (
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	fallback := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		value    string
		expected time.Time
	}{
		{
			name:     "ISO-8601",
			value:    "2023-07-03T10:00:00Z",
			expected: time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "RFC-2822",
			value:    "Mon, 03 Jul 2023 10:00:00 GMT",
			expected: time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "ISO-8601 with offset",
			value:    "2023-07-03T12:00:00+02:00",
			expected: time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "empty defaults to fallback",
			value:    "",
			expected: fallback,
		},
		{
			name:     "garbage defaults to fallback",
			value:    "sometime next week",
			expected: fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.value, fallback)
			if !got.Equal(tt.expected) {
				t.Errorf("NormalizeDate(%q) = %v, expected %v", tt.value, got, tt.expected)
			}
			if got.Location() != time.UTC {
				t.Errorf("NormalizeDate(%q) not in UTC", tt.value)
			}
		})
	}
}

func TestNormalizeDateNeverZero(t *testing.T) {
	got := NormalizeDate("", time.Now())
	if got.IsZero() {
		t.Error("NormalizeDate must never return a zero time")
	}
}
