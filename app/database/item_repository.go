package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrDuplicateItem is returned by Insert when the (item_hash, feed_id)
// uniqueness constraint is violated, typically by a concurrent run.
var ErrDuplicateItem = errors.New("item already exists")

var _ ItemRepository = (*ItemRepo)(nil)

// ItemRepo handles database operations for raw feed items
type ItemRepo struct {
	db *DB
}

// NewItemRepository creates a new raw item repository
func NewItemRepository(db *DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// Exists checks whether an item with the given hash is already stored for the feed.
func (r *ItemRepo) Exists(ctx context.Context, itemHash, feedID string) (bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM feed_raw_items
		WHERE item_hash = $1 AND feed_id = $2
		LIMIT 1
	`, itemHash, feedID).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check item existence: %w", err)
	}

	return true, nil
}

// Insert stores one raw item. Items are append-only; there is no update path.
func (r *ItemRepo) Insert(ctx context.Context, item RawItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feed_raw_items (item_hash, feed_id, raw_content, pub_date, guid)
		VALUES ($1, $2, $3, $4, $5)
	`, item.ItemHash, item.FeedID, item.RawContent, item.PubDate, item.GUID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateItem
		}
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// CountByFeed returns the number of stored items for one feed.
func (r *ItemRepo) CountByFeed(ctx context.Context, feedID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM feed_raw_items WHERE feed_id = $1", feedID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items for feed: %w", err)
	}
	return count, nil
}

// Count returns the total number of stored items.
func (r *ItemRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feed_raw_items").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}
