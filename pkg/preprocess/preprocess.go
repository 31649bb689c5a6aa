// Package preprocess is the public API of the Russian/English text
// preprocessing pipeline.
package preprocess

import (
	"context"
	"fmt"
	"sync"

	"github.com/baditaflorin/go_text_preprocessing/internal/adapters/logger"
	"github.com/baditaflorin/go_text_preprocessing/internal/adapters/morph"
	"github.com/baditaflorin/go_text_preprocessing/internal/adapters/normalizer"
	"github.com/baditaflorin/go_text_preprocessing/internal/adapters/tokenizer"
	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
	"github.com/baditaflorin/go_text_preprocessing/internal/core/frequency"
	"github.com/baditaflorin/go_text_preprocessing/internal/core/pipeline"
	"github.com/baditaflorin/go_text_preprocessing/internal/ports"
	"github.com/baditaflorin/go_text_preprocessing/internal/resources"
	"github.com/baditaflorin/go_text_preprocessing/internal/warmup"
)

type (
	// Record is one input text; see Text and Null.
	Record = domain.Record
	// NullPolicy controls how null records are handled.
	NullPolicy = domain.NullPolicy
	// Entry is a token with its count.
	Entry = frequency.Entry
	// RecordError carries the index of the record that failed a batch.
	RecordError = domain.RecordError
	// WarmupConfig tunes WarmUp.
	WarmupConfig = warmup.WarmupConfig
)

const (
	// NullAsEmpty turns a null record into an empty result string.
	NullAsEmpty = domain.NullAsEmpty
	// NullFail fails the whole batch on the first null record.
	NullFail = domain.NullFail
)

// AllLemmas asks Frequencies and MostCommon for every lemma.
const AllLemmas = frequency.All

var (
	// ErrResourceUnavailable reports that tokenizer data or stopword lists
	// could not be found, fetched or loaded. A later call retries.
	ErrResourceUnavailable = domain.ErrResourceUnavailable
	// ErrInvalidInput reports a record that is null under NullFail or is not
	// text. It comes wrapped in a *RecordError.
	ErrInvalidInput = domain.ErrInvalidInput
)

// Text wraps s as a record.
func Text(s string) Record { return domain.Text(s) }

// Null returns a missing record.
func Null() Record { return domain.Null() }

// Records wraps texts as non-null records.
func Records(texts []string) []Record { return domain.Records(texts) }

// DefaultWarmupConfig returns the warm-up settings used by WithWarmUp.
func DefaultWarmupConfig() WarmupConfig { return warmup.DefaultWarmupConfig() }

// Preprocessor normalizes batches of text records into lemma strings.
type Preprocessor struct {
	pipeline   *pipeline.Pipeline
	resources  ports.ResourceProvider
	normalizer ports.Normalizer
	logger     ports.Logger

	warmMu sync.Mutex
	warmed bool
}

// New creates a new Preprocessor instance.
func New(opts ...Option) (*Preprocessor, error) {
	config := &preprocessConfig{
		NullPolicy:           domain.NullAsEmpty,
		Memoize:              true,
		Source:               EmbeddedSource,
		FetchTimeout:         resources.DefaultFetchTimeout,
		UnicodeNormalization: true,
		WarmUpConfig:         warmup.DefaultWarmupConfig(),
	}
	for _, opt := range opts {
		opt(config)
	}

	if config.Logger == nil {
		var err error
		config.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}

	provider := config.Resources
	if provider == nil {
		var err error
		provider, err = sharedManager(config)
		if err != nil {
			return nil, err
		}
	}

	normFactory := normalizer.NewNormalizerFactory(normalizer.Options{ComposeNFC: config.UnicodeNormalization})
	normType := normalizer.DefaultNormalizerType
	if config.FastNormalizer {
		normType = normalizer.FastNormalizerType
	}
	norm := normFactory.CreateNormalizer(normType)

	dict, err := morph.NewDictionaryAnalyzer()
	if err != nil {
		return nil, err
	}
	var analyzer ports.Analyzer = dict
	if config.StemmingFallback {
		analyzer = morph.Chain{dict, morph.NewStemmingAnalyzer()}
	}

	p, err := pipeline.New(
		pipeline.Config{Workers: config.Workers, NullPolicy: config.NullPolicy, Memoize: config.Memoize},
		config.Logger,
		norm,
		analyzer,
		provider,
		tokenizer.New,
	)
	if err != nil {
		return nil, err
	}

	pp := &Preprocessor{
		pipeline:   p,
		resources:  provider,
		normalizer: norm,
		logger:     config.Logger,
	}

	if config.WarmUp {
		if err := pp.WarmUp(context.Background(), config.WarmUpConfig); err != nil {
			return nil, err
		}
	}

	return pp, nil
}

// Normalize returns one lemma string per record, in input order.
func (p *Preprocessor) Normalize(ctx context.Context, records []Record) ([]string, error) {
	return p.pipeline.Normalize(ctx, records)
}

// NormalizeStrings normalizes texts that are never null.
func (p *Preprocessor) NormalizeStrings(ctx context.Context, texts []string) ([]string, error) {
	return p.pipeline.NormalizeStrings(ctx, texts)
}

// NormalizeValues normalizes decoded values such as JSON arrays. nil is a
// null record; any value that is not text fails the batch with
// ErrInvalidInput wrapped in a *RecordError.
func (p *Preprocessor) NormalizeValues(ctx context.Context, values []interface{}) ([]string, error) {
	records := make([]Record, len(values))
	for i, v := range values {
		rec, err := domain.RecordFromValue(v)
		if err != nil {
			return nil, &domain.RecordError{Index: i, Err: err}
		}
		records[i] = rec
	}
	return p.pipeline.Normalize(ctx, records)
}

// Frequencies normalizes records and returns the n most common lemmas.
// n == 0 returns none and AllLemmas (any negative n) returns all of them.
func (p *Preprocessor) Frequencies(ctx context.Context, records []Record, n int) ([]Entry, error) {
	out, err := p.pipeline.Normalize(ctx, records)
	if err != nil {
		return nil, err
	}
	return MostCommon(out, n), nil
}

// MostCommon counts the lemmas of already normalized strings and returns
// the n most common, ties in first-seen order. n follows Frequencies.
func MostCommon(normalized []string, n int) []Entry {
	return frequency.Count(normalized).MostCommon(n)
}

// WarmUp acquires resources and exercises the pipeline once per instance.
func (p *Preprocessor) WarmUp(ctx context.Context, config warmup.WarmupConfig) error {
	p.warmMu.Lock()
	defer p.warmMu.Unlock()

	if p.warmed {
		p.logger.Debug("System already warmed up, skipping")
		return nil
	}

	warmupMgr := warmup.NewManager(p.logger, p.resources, config)
	warmupMgr.RegisterNormalizer(p.normalizer)
	warmupMgr.RegisterPipeline(p.pipeline)

	if err := warmupMgr.WarmUp(ctx); err != nil {
		return err
	}
	p.warmed = true
	return nil
}

var (
	managersMu sync.Mutex
	managers   = map[string]*resources.Manager{}
)

// sharedManager returns one resource manager per data directory and source,
// so every Preprocessor in the process shares the same cache.
func sharedManager(cfg *preprocessConfig) (*resources.Manager, error) {
	if cfg.DataDir == "" && cfg.Source == EmbeddedSource {
		return resources.Default(), nil
	}

	dir := cfg.DataDir
	if dir == "" {
		dir = resources.DefaultDataDir()
	}
	key := fmt.Sprintf("%s|%s|%s", dir, cfg.Source, cfg.BaseURL)

	managersMu.Lock()
	defer managersMu.Unlock()
	if m, ok := managers[key]; ok {
		return m, nil
	}

	var fetcher ports.ResourceFetcher
	switch cfg.Source {
	case EmbeddedSource:
		fetcher = resources.NewEmbeddedFetcher()
	case HTTPSource:
		f, err := resources.NewHTTPFetcher(cfg.BaseURL, cfg.Logger, resources.WithFetchTimeout(cfg.FetchTimeout))
		if err != nil {
			return nil, err
		}
		fetcher = f
	default:
		return nil, fmt.Errorf("unknown resource source %q", cfg.Source)
	}

	m := resources.NewManager(resources.NewStore(dir), fetcher, resources.WithManagerLogger(cfg.Logger))
	managers[key] = m
	return m, nil
}
