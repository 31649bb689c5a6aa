// Package pipeline turns raw text records into space-joined lemma strings:
// clean, tokenize, keep alphabetic tokens, lemmatize, drop stopwords, join.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
	"unicode"

	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
	"github.com/baditaflorin/go_text_preprocessing/internal/pool"
	"github.com/baditaflorin/go_text_preprocessing/internal/ports"
)

// TokenizerFactory builds a tokenizer from loaded tables.
type TokenizerFactory func(domain.TokenizerData) ports.Tokenizer

// Pipeline implements the text normalization pipeline.
type Pipeline struct {
	config       Config
	logger       ports.Logger
	normalizer   ports.Normalizer
	analyzer     ports.Analyzer
	resources    ports.ResourceProvider
	newTokenizer TokenizerFactory
	builders     *pool.StringBuilderPool
}

// New creates a new pipeline.
func New(
	config Config,
	logger ports.Logger,
	normalizer ports.Normalizer,
	analyzer ports.Analyzer,
	resources ports.ResourceProvider,
	newTokenizer TokenizerFactory,
) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil || normalizer == nil || analyzer == nil || resources == nil || newTokenizer == nil {
		return nil, errors.New("pipeline: logger, normalizer, analyzer, resources and tokenizer factory are required")
	}

	return &Pipeline{
		config:       config,
		logger:       logger,
		normalizer:   normalizer,
		analyzer:     analyzer,
		resources:    resources,
		newTokenizer: newTokenizer,
		builders:     pool.NewStringBuilderPool(),
	}, nil
}

// run carries the per-call state shared by the workers.
type run struct {
	tokenizer ports.Tokenizer
	stopwords domain.StopwordSet
	lemmas    *lemmatizer
}

// NormalizeStrings is Normalize for inputs that cannot be null.
func (p *Pipeline) NormalizeStrings(ctx context.Context, texts []string) ([]string, error) {
	return p.Normalize(ctx, domain.Records(texts))
}

// Normalize returns one normalized string per record, in input order.
// Resources are acquired before any record is processed; a failure there is
// returned as domain.ErrResourceUnavailable. Null records follow the
// configured NullPolicy.
func (p *Pipeline) Normalize(ctx context.Context, records []domain.Record) ([]string, error) {
	start := time.Now()

	res, err := p.resources.Ensure(ctx)
	if err != nil {
		p.logger.Error("Linguistic resources unavailable", "error", err)
		return nil, err
	}

	if p.config.NullPolicy == domain.NullFail {
		for i, rec := range records {
			if !rec.Valid {
				return nil, &domain.RecordError{Index: i, Err: fmt.Errorf("%w: null record", domain.ErrInvalidInput)}
			}
		}
	}

	r := &run{
		tokenizer: p.newTokenizer(res.Tokenizer),
		stopwords: res.Stopwords,
		lemmas:    newLemmatizer(p.analyzer, p.config.Memoize),
	}

	out := make([]string, len(records))
	workers := p.workerCount(len(records))
	if workers <= 1 {
		err = p.normalizeSequential(ctx, r, records, out)
	} else {
		err = p.normalizeParallel(ctx, r, records, out, workers)
	}
	if err != nil {
		p.logger.Error("Normalization cancelled", "error", err, "records", len(records))
		return nil, err
	}

	p.logger.Debug("Normalized records",
		"records", len(records),
		"workers", workers,
		"distinct_tokens", r.lemmas.size(),
		"lemma_cache_hits", r.lemmas.hits.Load(),
		"lemma_cache_misses", r.lemmas.misses.Load(),
		"duration", time.Since(start),
	)
	return out, nil
}

func (p *Pipeline) workerCount(records int) int {
	workers := p.config.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if workers > records {
		workers = records
	}
	return workers
}

func (p *Pipeline) normalizeSequential(ctx context.Context, r *run, records []domain.Record, out []string) error {
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		out[i] = p.normalizeRecord(r, rec)
	}
	return nil
}

// normalizeParallel fans record indices out to a fixed pool of workers.
// Each worker writes only its own slots of out, so no ordering step is needed.
func (p *Pipeline) normalizeParallel(ctx context.Context, r *run, records []domain.Record, out []string, workers int) error {
	jobs := make(chan int, workers*2)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = p.normalizeRecord(r, records[i])
			}
		}()
	}

	var err error
feed:
	for i := range records {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return err
}

// normalizeRecord applies the per-record steps.
func (p *Pipeline) normalizeRecord(r *run, rec domain.Record) string {
	if !rec.Valid || rec.Text == "" {
		return ""
	}

	cleaned := p.normalizer.Normalize(rec.Text)

	sb := p.builders.Get()
	defer p.builders.Put(sb)

	for _, token := range r.tokenizer.Words(cleaned) {
		if !isAlpha(token) {
			continue
		}
		lemma := r.lemmas.lemma(token)
		if r.stopwords.Contains(lemma) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(lemma)
	}
	return sb.String()
}

// isAlpha reports whether token is non-empty and made only of letters.
func isAlpha(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
