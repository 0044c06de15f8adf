package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSourceFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}
}

func TestRunLoadsSources(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "example.yml", `
url: https://example.com/feed.xml
settings:
  active: true
  fetch_interval: 1800
`)
	writeSourceFile(t, dir, "inactive.yml", `
url: https://example.org/feed.xml
settings:
  active: false
`)

	reg := NewRegistry(dir)
	if err := reg.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if reg.Count() != 2 {
		t.Fatalf("Expected 2 sources, got %d", reg.Count())
	}

	source := reg.GetSource("example")
	if source == nil {
		t.Fatal("Expected source 'example' to be loaded")
	}
	if source.GetURL() != "https://example.com/feed.xml" {
		t.Errorf("Unexpected URL: %s", source.GetURL())
	}
	if source.GetUpdateInterval() != 1800*time.Second {
		t.Errorf("Expected interval 1800s, got %v", source.GetUpdateInterval())
	}

	active := reg.GetActiveSources()
	if len(active) != 1 {
		t.Fatalf("Expected 1 active source, got %d", len(active))
	}
	if active[0].GetID() != "example" {
		t.Errorf("Expected active source 'example', got '%s'", active[0].GetID())
	}
}

func TestRunAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "bare.yml", `
url: https://example.com/feed.xml
settings:
  active: true
`)

	reg := NewRegistry(dir)
	if err := reg.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	source := reg.GetSource("bare")
	if source.Settings.FetchInterval != defaultFetchInterval {
		t.Errorf("Expected default fetch interval %d, got %d",
			defaultFetchInterval, source.Settings.FetchInterval)
	}
	if source.Settings.Timeout != defaultTimeout {
		t.Errorf("Expected default timeout %d, got %d",
			defaultTimeout, source.Settings.Timeout)
	}
}

func TestRunRejectsMissingURL(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "broken.yml", `
settings:
  active: true
`)

	reg := NewRegistry(dir)
	if err := reg.Run(); err == nil {
		t.Error("Expected error for source without URL")
	}
}

func TestRunMissingDirectory(t *testing.T) {
	reg := NewRegistry("/nonexistent/feeds/dir")
	if err := reg.Run(); err != nil {
		t.Errorf("Missing feeds directory should not be an error, got: %v", err)
	}
	if reg.Count() != 0 {
		t.Errorf("Expected 0 sources, got %d", reg.Count())
	}
}

type recordingRunner struct {
	calls int
	force bool
	ok    bool
}

func (r *recordingRunner) RunFeed(source *Source, force bool) bool {
	r.calls++
	r.force = force
	return r.ok
}

func TestSourceFetch(t *testing.T) {
	source := &Source{Name: "test", URL: "https://example.com/feed.xml"}

	if source.Fetch(true) {
		t.Error("Fetch without a bound runner should return false")
	}

	runner := &recordingRunner{ok: true}
	source.bind(runner)

	if !source.Fetch(true) {
		t.Error("Expected Fetch to report success")
	}
	if runner.calls != 1 || !runner.force {
		t.Errorf("Expected one forced call, got calls=%d force=%v", runner.calls, runner.force)
	}
}

func TestSourceLastError(t *testing.T) {
	source := &Source{Name: "test"}
	if source.LastError() != "" {
		t.Error("Expected empty last error initially")
	}

	source.UpdateLastError("connection refused")
	if source.LastError() != "connection refused" {
		t.Errorf("Unexpected last error: %s", source.LastError())
	}
}
