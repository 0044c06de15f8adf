package registry

import (
	"sync"
	"time"
)

// Runner executes the ingestion pipeline for a single source. The registry
// only needs a success flag back; aggregation lives with the scheduler.
type Runner interface {
	RunFeed(source *Source, force bool) bool
}

// ErrorAnnotatable is the capability every feed source satisfies by
// construction, so callers never probe for optional methods at runtime.
type ErrorAnnotatable interface {
	UpdateLastError(message string)
}

// Source is one registered feed. Sources are owned by the registry; the
// pipeline reads them and annotates errors, nothing more.
type Source struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Settings SourceSettings `yaml:"settings"`

	mu        sync.Mutex
	lastError string
	runner    Runner
}

type SourceSettings struct {
	Active        bool `yaml:"active"`
	FetchInterval int  `yaml:"fetch_interval"` // seconds
	Timeout       int  `yaml:"timeout"`        // seconds, per-source override
}

func (s *Source) GetID() string {
	return s.Name
}

func (s *Source) GetURL() string {
	return s.URL
}

func (s *Source) GetUpdateInterval() time.Duration {
	return time.Duration(s.Settings.FetchInterval) * time.Second
}

// GetTimeout is the per-source fetch deadline, overriding the global one.
func (s *Source) GetTimeout() time.Duration {
	return time.Duration(s.Settings.Timeout) * time.Second
}

func (s *Source) IsActive() bool {
	return s.Settings.Active
}

// UpdateLastError records the most recent failure on the source itself so
// operators can inspect health without a database round trip.
func (s *Source) UpdateLastError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = message
}

func (s *Source) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Fetch runs the pipeline for this source. Returns false when no runner is
// bound, the source was not due, or the run failed.
func (s *Source) Fetch(force bool) bool {
	s.mu.Lock()
	runner := s.runner
	s.mu.Unlock()

	if runner == nil {
		return false
	}
	return runner.RunFeed(s, force)
}

func (s *Source) bind(runner Runner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runner = runner
}
