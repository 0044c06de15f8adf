package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"feedsink/app/cfg"
	"feedsink/app/database"
	"feedsink/app/pipeline"
	"feedsink/app/registry"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)
var _ registry.Runner = (*Scheduler)(nil)

// RunDueJobName is the scheduled_jobs row backing the recurring trigger.
const RunDueJobName = "feeds:run_due"

// minTriggerCheckInterval bounds how often EnsureTrigger hits the database.
const minTriggerCheckInterval = 30 * time.Second

type Scheduler struct {
	sources     *registry.Registry
	runner      FeedRunner
	meta        database.MetadataRepository
	jobs        database.JobRepository
	db          Pinger
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup

	mu               sync.Mutex
	lastRun          *pipeline.RunResult
	lastTriggerCheck time.Time
}

func NewScheduler(sources *registry.Registry, runner FeedRunner,
	meta database.MetadataRepository, jobs database.JobRepository, db Pinger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	c := cfg.Get()

	workerCount := c.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}

	return &Scheduler{
		sources:     sources,
		runner:      runner,
		meta:        meta,
		jobs:        jobs,
		db:          db,
		interval:    time.Duration(c.SchedulerInterval) * time.Second,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.RunDueFeeds(s.ctx, false)

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.RunDueFeeds(s.ctx, false)
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// RunDueFeeds executes the pipeline for every active source that is due.
// Errors never escape: each outcome is folded into the returned RunResult.
// Once ctx is cancelled no new feed is started; in-flight feeds complete.
func (s *Scheduler) RunDueFeeds(ctx context.Context, force bool) *pipeline.RunResult {
	result := pipeline.NewRunResult()
	defer func() {
		result.Finish()
		s.mu.Lock()
		s.lastRun = result
		s.mu.Unlock()
	}()

	s.EnsureTrigger(ctx, RunDueJobName, s.interval)

	if err := s.db.PingContext(ctx); err != nil {
		result.RecordGeneral(fmt.Sprintf("infrastructure unavailable: %v", err))
		slog.Error("Scheduler run aborted, database unreachable", "run_id", result.RunID, "error", err)
		return result
	}

	sources := s.sources.GetActiveSources()
	if len(sources) == 0 {
		slog.Debug("No active sources registered")
		return result
	}

	sem := make(chan struct{}, s.workerCount)
	var wg sync.WaitGroup

	for _, src := range sources {
		select {
		case <-ctx.Done():
			result.RecordGeneral(fmt.Sprintf("run interrupted: %v", ctx.Err()))
			wg.Wait()
			return result
		default:
		}

		claimed, err := s.meta.Claim(ctx, src.GetID(), src.GetUpdateInterval(), force)
		if err != nil {
			result.RecordFailure(src.GetID(), fmt.Errorf("claim failed: %w", err))
			continue
		}
		if !claimed {
			slog.Debug("Feed not due for refresh yet", "feed", src.GetID())
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(src *registry.Source) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					result.RecordFailure(src.GetID(), fmt.Errorf("panic: %v", r))
					slog.Error("Feed processing panicked", "feed", src.GetID(), "panic", r)
				}
			}()

			task := NewProcessFeedTask(src, s.runner, result)
			task.Start()
			task.Execute(ctx)
		}(src)
	}

	wg.Wait()

	if err := s.jobs.MarkRun(ctx, RunDueJobName); err != nil {
		slog.Warn("Failed to mark scheduled job run", "job", RunDueJobName, "error", err)
	}

	slog.Info("Scheduler run completed",
		"run_id", result.RunID,
		"duration", result.Duration(),
		"success", result.Success(),
		"errors", result.Errors(),
		"new_items", result.NewItems())

	return result
}

// RunFeed processes one source immediately, bypassing due computation only
// when force is set. Satisfies registry.Runner for source-initiated fetches.
func (s *Scheduler) RunFeed(src *registry.Source, force bool) bool {
	claimed, err := s.meta.Claim(s.ctx, src.GetID(), src.GetUpdateInterval(), force)
	if err != nil {
		slog.Error("Failed to claim feed", "feed", src.GetID(), "error", err)
		return false
	}
	if !claimed {
		return false
	}

	ctx := s.ctx
	if timeout := src.GetTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	_, err = s.runner.Run(ctx, src)
	return err == nil
}

// EnsureTrigger keeps the recurring trigger registration alive. The upsert is
// idempotent; the in-process guard keeps housekeeping entry points from
// hammering the database.
func (s *Scheduler) EnsureTrigger(ctx context.Context, name string, interval time.Duration) {
	s.mu.Lock()
	if time.Since(s.lastTriggerCheck) < minTriggerCheckInterval {
		s.mu.Unlock()
		return
	}
	s.lastTriggerCheck = time.Now()
	s.mu.Unlock()

	if err := s.jobs.Upsert(ctx, name, int(interval.Seconds())); err != nil {
		slog.Warn("Failed to verify scheduled job registration", "job", name, "error", err)
	}
}

// LastRun returns the most recent run result, nil before the first run.
func (s *Scheduler) LastRun() *pipeline.RunResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}
