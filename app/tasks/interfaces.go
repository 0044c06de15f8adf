package tasks

import (
	"context"

	"feedsink/app/pipeline"
)

// FeedRunner executes the ingestion pipeline for one source. Satisfied by
// pipeline.Processor; narrowed here so the scheduler can be tested with a
// fake runner.
type FeedRunner interface {
	Run(ctx context.Context, src pipeline.Source) (int, error)
}

// Pinger reports database reachability. Total database unavailability is
// checked once per run entry, not per feed.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// TaskSchedulerInterface defines the background processing surface used by
// the main application and the API layer.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	RunDueFeeds(ctx context.Context, force bool) *pipeline.RunResult
	LastRun() *pipeline.RunResult
}
