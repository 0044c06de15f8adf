package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"feedsink/app/database"
	"feedsink/app/feed"
)

// SaveResult reports the outcome of persisting one feed's batch.
type SaveResult struct {
	New     int
	Skipped int
	Errors  int
}

// Persister deduplicates and stores normalized items. Duplicates are the
// expected steady state, not errors; a failing insert never aborts the
// remaining items of the batch.
type Persister struct {
	items  database.ItemRepository
	logger *slog.Logger
}

func NewPersister(items database.ItemRepository, logger *slog.Logger) *Persister {
	return &Persister{items: items, logger: logger}
}

// Save inserts the new items of a batch, keyed by (item_hash, feed_id).
func (p *Persister) Save(ctx context.Context, feedID string, items []feed.Item) SaveResult {
	var res SaveResult

	for _, item := range items {
		if item.GUID == "" && item.Link == "" {
			p.logger.Warn("Skipping item without identity", "feed", feedID, "title", item.Title)
			res.Skipped++
			continue
		}

		hash := feed.ItemHash(feedID, item)

		exists, err := p.items.Exists(ctx, hash, feedID)
		if err != nil {
			p.logger.Error("Failed to check item existence", "feed", feedID, "hash", hash, "error", err)
			res.Errors++
			continue
		}
		if exists {
			res.Skipped++
			continue
		}

		doc, err := item.Document()
		if err != nil {
			p.logger.Error("Failed to serialize item", "feed", feedID, "guid", item.GUID, "error", err)
			res.Errors++
			continue
		}

		err = p.items.Insert(ctx, database.RawItem{
			ItemHash:   hash,
			FeedID:     feedID,
			RawContent: doc,
			PubDate:    item.PublishedAt,
			GUID:       item.GUID,
		})
		if err != nil {
			if errors.Is(err, database.ErrDuplicateItem) {
				// Lost a race with a concurrent run; same outcome as exists.
				res.Skipped++
				continue
			}
			p.logger.Error("Failed to insert item", "feed", feedID, "guid", item.GUID, "error", err)
			res.Errors++
			continue
		}

		res.New++
	}

	return res
}
