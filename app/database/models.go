package database

import (
	"time"
)

// FeedMetadata tracks per-feed pipeline state. Rows are created lazily the
// first time a feed is processed and are never deleted by the pipeline.
type FeedMetadata struct {
	FeedID           string
	LastFetched      *time.Time
	FetchInterval    int // seconds
	FetchCount       int
	LastErrorDate    *time.Time
	LastErrorMessage string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RawItem is one persisted feed item. Rows are append-only; the pipeline
// never updates or deletes a row after insert. (ItemHash, FeedID) is unique,
// the same GUID may legitimately recur across different feeds.
type RawItem struct {
	ID         int64
	ItemHash   string
	FeedID     string
	RawContent []byte // normalized item serialized as JSON
	PubDate    time.Time
	GUID       string
	CreatedAt  time.Time
}

// ScheduledJob records the registration of a named recurring job so the
// scheduler can self-verify its own trigger on each housekeeping entry.
type ScheduledJob struct {
	JobName         string
	IntervalSeconds int
	LastRunAt       *time.Time
	UpdatedAt       time.Time
}
