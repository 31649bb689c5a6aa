package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
	"github.com/baditaflorin/go_text_preprocessing/internal/ports"
)

// lemmatizer picks the top ranked normal form of a token, optionally
// remembering answers for the lifetime of one Normalize call.
type lemmatizer struct {
	analyzer ports.Analyzer
	memoize  bool

	mu    sync.RWMutex
	cache map[string]string

	hits   atomic.Int64
	misses atomic.Int64
}

func newLemmatizer(analyzer ports.Analyzer, memoize bool) *lemmatizer {
	lm := &lemmatizer{analyzer: analyzer, memoize: memoize}
	if memoize {
		lm.cache = make(map[string]string)
	}
	return lm
}

func (lm *lemmatizer) lemma(token string) string {
	if !lm.memoize {
		return lm.best(token)
	}

	lm.mu.RLock()
	lemma, ok := lm.cache[token]
	lm.mu.RUnlock()
	if ok {
		lm.hits.Add(1)
		return lemma
	}

	lm.misses.Add(1)
	lemma = lm.best(token)
	lm.mu.Lock()
	lm.cache[token] = lemma
	lm.mu.Unlock()
	return lemma
}

// best selects the first parse; analyzers rank parses by probability, so
// this is the most probable normal form.
func (lm *lemmatizer) best(token string) string {
	parse, ok := domain.Best(lm.analyzer.Parse(token))
	if !ok || parse.NormalForm == "" {
		return token
	}
	return parse.NormalForm
}

func (lm *lemmatizer) size() int {
	lm.mu.RLock()
	defer lm.mu.RUnlock()
	return len(lm.cache)
}
