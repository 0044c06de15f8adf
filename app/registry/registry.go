package registry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	defaultFetchInterval = 3600 // seconds
	defaultTimeout       = 30   // seconds
)

// Registry loads feed sources from a directory of YAML files and caches them.
type Registry struct {
	feedsDir string
	mu       sync.RWMutex
	sources  map[string]*Source
}

func NewRegistry(feedsDir string) *Registry {
	return &Registry{
		feedsDir: feedsDir,
		sources:  make(map[string]*Source),
	}
}

// Run loads every *.yml file in the feeds directory. A missing directory is
// not an error; it just means no sources are registered.
func (r *Registry) Run() error {
	if _, err := os.Stat(r.feedsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(r.feedsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	yamlFiles, err := filepath.Glob(filepath.Join(r.feedsDir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to find YAML files: %w", err)
	}
	files = append(files, yamlFiles...)

	for _, file := range files {
		name := sourceName(file)

		source, err := r.loadFile(file, name)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		r.mu.Lock()
		r.sources[name] = source
		r.mu.Unlock()

		slog.Debug("Source loaded", "source", name, "url", source.URL,
			"active", source.Settings.Active, "fetch_interval", source.Settings.FetchInterval)
	}

	return nil
}

// Bind attaches a pipeline runner to every loaded source so Source.Fetch works.
func (r *Registry) Bind(runner Runner) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, source := range r.sources {
		source.bind(runner)
	}
}

// GetSource returns a loaded source by name, or nil.
func (r *Registry) GetSource(name string) *Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sources[name]
}

// GetSources returns all loaded sources sorted by name.
func (r *Registry) GetSources() []*Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := make([]*Source, 0, len(r.sources))
	for _, source := range r.sources {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources
}

// GetActiveSources returns all active sources sorted by name.
func (r *Registry) GetActiveSources() []*Source {
	sources := r.GetSources()
	active := make([]*Source, 0, len(sources))
	for _, source := range sources {
		if source.IsActive() {
			active = append(active, source)
		}
	}
	return active
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

func (r *Registry) loadFile(path, name string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	source.Name = name
	setDefaults(&source)

	if err := validate(&source); err != nil {
		return nil, err
	}

	return &source, nil
}

func setDefaults(source *Source) {
	if source.Settings.FetchInterval == 0 {
		source.Settings.FetchInterval = defaultFetchInterval
	}
	if source.Settings.Timeout == 0 {
		source.Settings.Timeout = defaultTimeout
	}
}

func validate(source *Source) error {
	if source.URL == "" {
		return fmt.Errorf("source %s: url is required", source.Name)
	}
	if source.Settings.FetchInterval < 0 {
		return fmt.Errorf("source %s: fetch_interval must not be negative", source.Name)
	}
	return nil
}

func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(strings.TrimSuffix(base, ".yml"), ".yaml")
}
