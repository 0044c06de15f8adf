package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunResult aggregates one scheduler invocation. It is constructed fresh per
// run, safe for concurrent workers, and discarded after reporting.
type RunResult struct {
	RunID     string
	StartedAt time.Time

	mu         sync.Mutex
	finishedAt time.Time
	success    int
	errors     int
	newItems   int
	details    []string
}

func NewRunResult() *RunResult {
	return &RunResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// RecordSuccess counts one fully processed feed and its new items.
func (r *RunResult) RecordSuccess(feedID string, newItems int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	r.newItems += newItems
}

// RecordFailure counts one failed feed with a human-readable detail line.
func (r *RunResult) RecordFailure(feedID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors++
	r.details = append(r.details, fmt.Sprintf("%s: %v", feedID, err))
}

// RecordGeneral counts a run-scoped failure not attributable to any feed.
func (r *RunResult) RecordGeneral(detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors++
	r.details = append(r.details, detail)
}

// Finish stamps the completion time.
func (r *RunResult) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishedAt = time.Now().UTC()
}

func (r *RunResult) Success() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.success
}

func (r *RunResult) Errors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors
}

func (r *RunResult) NewItems() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newItems
}

// Details returns a copy of the per-feed failure descriptions.
func (r *RunResult) Details() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.details))
	copy(out, r.details)
	return out
}

func (r *RunResult) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.finishedAt.Sub(r.StartedAt)
}
