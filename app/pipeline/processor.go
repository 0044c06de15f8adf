package pipeline

import (
	"context"
	"log/slog"
	"time"

	"feedsink/app/database"
	"feedsink/app/feed"
)

// Fetcher retrieves the raw bytes of a feed URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Source is the narrow feed-source contract the pipeline consumes. Every
// implementation carries error annotation by construction.
type Source interface {
	GetID() string
	GetURL() string
	GetUpdateInterval() time.Duration
	UpdateLastError(message string)
}

// Processor runs the per-feed pipeline: fetch, sniff/parse, dedup, persist.
type Processor struct {
	fetcher   Fetcher
	parser    *feed.Parser
	persister *Persister
	errors    *ErrorHandler
	meta      database.MetadataRepository
	logger    *slog.Logger
}

func NewProcessor(fetcher Fetcher, parser *feed.Parser, persister *Persister,
	errors *ErrorHandler, meta database.MetadataRepository, logger *slog.Logger) *Processor {
	return &Processor{
		fetcher:   fetcher,
		parser:    parser,
		persister: persister,
		errors:    errors,
		meta:      meta,
		logger:    logger,
	}
}

// Run processes one feed end to end and returns the number of new items.
// All failures come back as a *FeedError; nothing is thrown past this
// boundary and the feed's metadata is annotated before returning.
func (p *Processor) Run(ctx context.Context, src Source) (int, error) {
	feedID := src.GetID()
	started := time.Now()

	data, err := p.fetcher.Fetch(ctx, src.GetURL())
	if err != nil {
		return 0, p.fail(ctx, src, CodeTransport, err)
	}

	items, err := p.parser.Run(src.GetURL(), data)
	if err != nil {
		return 0, p.fail(ctx, src, ClassifyError(err), err)
	}

	res := p.persister.Save(ctx, feedID, items)
	if res.New == 0 && res.Errors > 0 {
		// Every candidate item failed to persist: the feed produced nothing
		// usable this run, which is a persistence failure, not a fetch one.
		return 0, p.fail(ctx, src, CodePersistence, &FeedError{
			FeedID: feedID, Code: CodePersistence,
			Err: errItemsUnavailable(res.Errors),
		})
	}

	if err := p.meta.MarkSuccess(ctx, feedID); err != nil {
		// The items are stored; a bookkeeping failure downgrades to a log.
		p.logger.Warn("Failed to update feed metadata", "feed", feedID, "error", err)
	}

	p.logger.Info("Feed processed",
		"feed", feedID,
		"duration", time.Since(started),
		"total", len(items),
		"new", res.New,
		"skipped", res.Skipped,
		"errors", res.Errors)

	return res.New, nil
}

func (p *Processor) fail(ctx context.Context, src Source, code Code, err error) error {
	feedID := src.GetID()

	src.UpdateLastError(err.Error())
	p.errors.LogFeedError(ctx, feedID, code, err.Error())

	if fe, ok := err.(*FeedError); ok {
		return fe
	}
	return &FeedError{FeedID: feedID, Code: code, Err: err}
}
