package preprocess

import (
	"time"

	"github.com/baditaflorin/go_text_preprocessing/internal/adapters/logger"
	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
	"github.com/baditaflorin/go_text_preprocessing/internal/ports"
	"github.com/baditaflorin/go_text_preprocessing/internal/warmup"
	"github.com/baditaflorin/l"
)

// ResourceSource selects where missing linguistic resources come from.
type ResourceSource string

const (
	// EmbeddedSource installs the copies compiled into the binary.
	EmbeddedSource ResourceSource = "embedded"
	// HTTPSource downloads bundles from a mirror serving the data directory layout.
	HTTPSource ResourceSource = "http"
)

// Option defines a functional option for configuring a Preprocessor.
type Option func(*preprocessConfig)

type preprocessConfig struct {
	Logger               ports.Logger
	Workers              int
	NullPolicy           domain.NullPolicy
	Memoize              bool
	Resources            ports.ResourceProvider
	DataDir              string
	Source               ResourceSource
	BaseURL              string
	FetchTimeout         time.Duration
	StemmingFallback     bool
	FastNormalizer       bool
	UnicodeNormalization bool
	WarmUp               bool
	WarmUpConfig         warmup.WarmupConfig
}

// WithLogger sets a custom logger.
func WithLogger(l l.Logger) Option {
	return func(cfg *preprocessConfig) {
		cfg.Logger = logger.FromExisting(l)
	}
}

// WithQuietLogger discards all log output.
func WithQuietLogger() Option {
	return func(cfg *preprocessConfig) {
		cfg.Logger = logger.NewNopLogger()
	}
}

// WithWorkers sets the worker pool size. 0 uses every CPU, 1 runs sequentially.
func WithWorkers(n int) Option {
	return func(cfg *preprocessConfig) {
		cfg.Workers = n
	}
}

// WithNullPolicy sets how null records are handled.
func WithNullPolicy(p domain.NullPolicy) Option {
	return func(cfg *preprocessConfig) {
		cfg.NullPolicy = p
	}
}

// WithMemoization toggles the per-call lemma cache.
func WithMemoization(enable bool) Option {
	return func(cfg *preprocessConfig) {
		cfg.Memoize = enable
	}
}

// WithResourceManager injects the resource provider, overriding
// WithDataDir and WithResourceSource.
func WithResourceManager(p ports.ResourceProvider) Option {
	return func(cfg *preprocessConfig) {
		cfg.Resources = p
	}
}

// WithDataDir sets the directory resources are installed into.
func WithDataDir(dir string) Option {
	return func(cfg *preprocessConfig) {
		cfg.DataDir = dir
	}
}

// WithResourceSource selects where missing resources are fetched from.
// baseURL is required for HTTPSource.
func WithResourceSource(source ResourceSource, baseURL string) Option {
	return func(cfg *preprocessConfig) {
		cfg.Source = source
		cfg.BaseURL = baseURL
	}
}

// WithFetchTimeout bounds each HTTP resource download.
func WithFetchTimeout(d time.Duration) Option {
	return func(cfg *preprocessConfig) {
		cfg.FetchTimeout = d
	}
}

// WithStemmingFallback stems words the dictionary does not know instead of
// guessing their lemma.
func WithStemmingFallback(enable bool) Option {
	return func(cfg *preprocessConfig) {
		cfg.StemmingFallback = enable
	}
}

// WithFastNormalizer uses the table-driven text cleaner.
func WithFastNormalizer() Option {
	return func(cfg *preprocessConfig) {
		cfg.FastNormalizer = true
	}
}

// WithUnicodeNormalization toggles NFC composition before cleaning.
func WithUnicodeNormalization(enable bool) Option {
	return func(cfg *preprocessConfig) {
		cfg.UnicodeNormalization = enable
	}
}

// WithWarmUp enables system warm-up on initialization.
func WithWarmUp(enable bool) Option {
	return func(cfg *preprocessConfig) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration.
func WithWarmUpConfig(config warmup.WarmupConfig) Option {
	return func(cfg *preprocessConfig) {
		cfg.WarmUpConfig = config
		cfg.WarmUp = true
	}
}
