package resources

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/baditaflorin/go_text_preprocessing/internal/adapters/logger"
	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
	"github.com/baditaflorin/go_text_preprocessing/internal/ports"
)

// DefaultLanguage is the tokenizer language loaded by default.
const DefaultLanguage = "russian"

// Stats reports how often the manager touched the locator and fetcher.
type Stats struct {
	Lookups int64
	Fetches int64
	Loads   int64
}

// Manager is the process-wide cache of linguistic resources. The first
// successful Ensure loads the bundles; every later call returns the cached
// value without touching the locator or fetcher.
type Manager struct {
	mu       sync.Mutex
	loaded   *domain.Resources
	locator  ports.ResourceLocator
	fetcher  ports.ResourceFetcher
	logger   ports.Logger
	language string
	bundles  []string

	lookups atomic.Int64
	fetches atomic.Int64
	loads   atomic.Int64
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLanguage selects the tokenizer language.
func WithLanguage(lang string) ManagerOption {
	return func(m *Manager) {
		m.language = lang
	}
}

// WithManagerLogger sets the logger.
func WithManagerLogger(l ports.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a manager. fetcher may be nil, in which case missing
// bundles are reported as unavailable.
func NewManager(locator ports.ResourceLocator, fetcher ports.ResourceFetcher, opts ...ManagerOption) *Manager {
	m := &Manager{
		locator:  locator,
		fetcher:  fetcher,
		language: DefaultLanguage,
		bundles:  RequiredBundles(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logger.NewNopLogger()
	}
	return m
}

// Ensure makes sure every required bundle is installed and loaded, fetching
// missing bundles once. Failures are not cached so a later call retries.
func (m *Manager) Ensure(ctx context.Context) (*domain.Resources, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded != nil {
		return m.loaded, nil
	}

	start := time.Now()
	dirs := make(map[string]string, len(m.bundles))
	for _, name := range m.bundles {
		dir, err := m.acquire(ctx, name)
		if err != nil {
			return nil, err
		}
		dirs[name] = dir
	}

	m.loads.Add(1)
	res, err := load(dirs, m.language)
	if err != nil {
		m.logger.Error("Failed to load linguistic resources", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrResourceUnavailable, err)
	}

	m.loaded = res
	m.logger.Info("Linguistic resources ready",
		"root", m.locator.Root(),
		"language", m.language,
		"stopwords", res.Stopwords.Len(),
		"abbreviations", len(res.Tokenizer.Abbreviations),
		"duration", time.Since(start),
	)
	return res, nil
}

func (m *Manager) acquire(ctx context.Context, name string) (string, error) {
	m.lookups.Add(1)
	dir, lookupErr := m.locator.Lookup(name)
	if lookupErr == nil {
		return dir, nil
	}

	if m.fetcher == nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrResourceUnavailable, name, lookupErr)
	}

	m.logger.Info("Fetching linguistic resource", "bundle", name, "root", m.locator.Root())
	m.fetches.Add(1)
	if err := m.fetcher.Fetch(ctx, name, m.locator.Root()); err != nil {
		return "", fmt.Errorf("%w: fetch %s: %v", domain.ErrResourceUnavailable, name, err)
	}

	m.lookups.Add(1)
	dir, err := m.locator.Lookup(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s still missing after fetch: %v", domain.ErrResourceUnavailable, name, err)
	}
	return dir, nil
}

// Loaded returns the cached resources, or nil before the first successful Ensure.
func (m *Manager) Loaded() *domain.Resources {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Stats returns the call counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Lookups: m.lookups.Load(),
		Fetches: m.fetches.Load(),
		Loads:   m.loads.Load(),
	}
}

var (
	defaultOnce    sync.Once
	defaultManager *Manager
)

// Default returns the process-wide manager backed by DefaultDataDir and the
// bundled copies of the resources.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager(NewStore(DefaultDataDir()), NewEmbeddedFetcher())
	})
	return defaultManager
}
