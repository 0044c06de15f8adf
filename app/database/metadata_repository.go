package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var _ MetadataRepository = (*MetadataRepo)(nil)

// MetadataRepo handles database operations for feed metadata
type MetadataRepo struct {
	db *DB
}

// NewMetadataRepository creates a new feed metadata repository
func NewMetadataRepository(db *DB) *MetadataRepo {
	return &MetadataRepo{db: db}
}

// Get retrieves the metadata row for a feed, or nil when none exists yet.
func (r *MetadataRepo) Get(ctx context.Context, feedID string) (*FeedMetadata, error) {
	var m FeedMetadata
	err := r.db.QueryRowContext(ctx, `
		SELECT feed_id, last_fetched, fetch_interval, fetch_count,
		       last_error_date, last_error_message, created_at, updated_at
		FROM feed_metadata
		WHERE feed_id = $1
	`, feedID).Scan(
		&m.FeedID, &m.LastFetched, &m.FetchInterval, &m.FetchCount,
		&m.LastErrorDate, &m.LastErrorMessage, &m.CreatedAt, &m.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed metadata: %w", err)
	}

	return &m, nil
}

// Ensure creates the metadata row for a feed if it does not exist yet and
// keeps fetch_interval in sync with the registry.
func (r *MetadataRepo) Ensure(ctx context.Context, feedID string, interval time.Duration) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feed_metadata (feed_id, fetch_interval)
		VALUES ($1, $2)
		ON CONFLICT (feed_id) DO UPDATE
		SET fetch_interval = EXCLUDED.fetch_interval, updated_at = NOW()
	`, feedID, int(interval.Seconds()))

	if err != nil {
		return fmt.Errorf("failed to ensure feed metadata: %w", err)
	}

	return nil
}

// Claim conditionally advances last_fetched for a due feed. A feed is due
// when it has never been fetched or its interval has elapsed; force bypasses
// the interval check. The conditional update doubles as an advisory claim:
// when two scheduler invocations overlap, only one of them wins the row.
func (r *MetadataRepo) Claim(ctx context.Context, feedID string, interval time.Duration, force bool) (bool, error) {
	if err := r.Ensure(ctx, feedID, interval); err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE feed_metadata
		SET last_fetched = NOW(), updated_at = NOW()
		WHERE feed_id = $1
		  AND ($2 OR last_fetched IS NULL OR last_fetched <= NOW() - ($3 * INTERVAL '1 second'))
	`, feedID, force, int(interval.Seconds()))

	if err != nil {
		return false, fmt.Errorf("failed to claim feed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim result: %w", err)
	}

	return affected > 0, nil
}

// MarkSuccess records a successful pipeline run and clears prior error state.
func (r *MetadataRepo) MarkSuccess(ctx context.Context, feedID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE feed_metadata
		SET fetch_count = fetch_count + 1, last_fetched = NOW(),
		    last_error_date = NULL, last_error_message = '', updated_at = NOW()
		WHERE feed_id = $1
	`, feedID)

	if err != nil {
		return fmt.Errorf("failed to mark feed success: %w", err)
	}

	return nil
}

// SetLastError annotates a feed with its most recent failure.
func (r *MetadataRepo) SetLastError(ctx context.Context, feedID string, message string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE feed_metadata
		SET last_error_date = NOW(), last_error_message = $2, updated_at = NOW()
		WHERE feed_id = $1
	`, feedID, message)

	if err != nil {
		return fmt.Errorf("failed to set feed error: %w", err)
	}

	return nil
}

// Count returns the number of feeds with a metadata row.
func (r *MetadataRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feed_metadata").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count feed metadata: %w", err)
	}
	return count, nil
}

// CountWithErrors returns the number of feeds currently annotated with an error.
func (r *MetadataRepo) CountWithErrors(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM feed_metadata WHERE last_error_date IS NOT NULL").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count feeds with errors: %w", err)
	}
	return count, nil
}
