package tasks

import (
	"context"
	"log/slog"

	"feedsink/app/pipeline"
	"feedsink/app/registry"
)

type ProcessFeedTask struct {
	Task
	source *registry.Source
	runner FeedRunner
	result *pipeline.RunResult
}

func NewProcessFeedTask(source *registry.Source, runner FeedRunner, result *pipeline.RunResult) *ProcessFeedTask {
	return &ProcessFeedTask{
		Task:   NewTask(TaskTypeProcessFeed, source.GetID()),
		source: source,
		runner: runner,
		result: result,
	}
}

// Execute runs the pipeline for one feed and folds the outcome into the
// shared run result. The returned error is informational; the run itself
// never fails because of a single feed.
func (t *ProcessFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if timeout := t.source.GetTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	newCount, err := t.runner.Run(ctx, t.source)
	if err != nil {
		t.result.RecordFailure(t.FeedName, err)
		return err
	}

	t.result.RecordSuccess(t.FeedName, newCount)

	slog.Info("Task completed",
		"type", string(t.Type),
		"feed", t.FeedName,
		"duration", t.GetDuration(),
		"new", newCount)

	return nil
}
