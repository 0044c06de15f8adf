package database

import (
	"context"
	"time"
)

// MetadataRepository defines feed metadata operations used by the scheduler
// and the pipeline. Claim is the only coordination primitive between
// overlapping scheduler invocations: it conditionally advances last_fetched
// so that two concurrent runs cannot both fetch the same feed.
type MetadataRepository interface {
	Get(ctx context.Context, feedID string) (*FeedMetadata, error)
	Ensure(ctx context.Context, feedID string, interval time.Duration) error
	Claim(ctx context.Context, feedID string, interval time.Duration, force bool) (bool, error)
	MarkSuccess(ctx context.Context, feedID string) error
	SetLastError(ctx context.Context, feedID string, message string) error
	Count(ctx context.Context) (int, error)
	CountWithErrors(ctx context.Context) (int, error)
}

// ItemRepository defines raw item persistence. Insert returns
// ErrDuplicateItem when the (item_hash, feed_id) constraint is hit, so a
// concurrent duplicate can be treated as a skip rather than a failure.
type ItemRepository interface {
	Exists(ctx context.Context, itemHash, feedID string) (bool, error)
	Insert(ctx context.Context, item RawItem) error
	CountByFeed(ctx context.Context, feedID string) (int, error)
	Count(ctx context.Context) (int, error)
}

// JobRepository manages recurring trigger registrations.
type JobRepository interface {
	Get(ctx context.Context, name string) (*ScheduledJob, error)
	Upsert(ctx context.Context, name string, intervalSeconds int) error
	MarkRun(ctx context.Context, name string) error
}
