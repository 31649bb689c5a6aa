// text_preprocessing.go
// Package textpreprocessing normalizes Russian and English text for
// bag-of-words style analysis. Each record is lowercased, stripped of
// punctuation, tokenized, filtered to alphabetic tokens, lemmatized and
// cleared of stopwords; the remaining lemmas are joined with single spaces.
//
// The package-level helpers share one default Preprocessor. Use
// pkg/preprocess directly for custom options.
package textpreprocessing

import (
	"context"
	"sync"

	"github.com/baditaflorin/go_text_preprocessing/pkg/preprocess"
)

var (
	defaultOnce sync.Once
	defaultPP   *preprocess.Preprocessor
	defaultErr  error
)

func defaultPreprocessor() (*preprocess.Preprocessor, error) {
	defaultOnce.Do(func() {
		logger, err := createDefaultLogger()
		if err != nil {
			defaultErr = err
			return
		}
		defaultPP, defaultErr = preprocess.New(preprocess.WithLogger(logger))
	})
	return defaultPP, defaultErr
}

// Preprocess normalizes texts with the default configuration.
// The result has one entry per input, in the same order.
func Preprocess(texts []string) ([]string, error) {
	return PreprocessContext(context.Background(), texts)
}

// PreprocessContext is Preprocess with a context.
func PreprocessContext(ctx context.Context, texts []string) ([]string, error) {
	pp, err := defaultPreprocessor()
	if err != nil {
		return nil, err
	}
	return pp.NormalizeStrings(ctx, texts)
}

// MostCommon preprocesses texts and returns the n most frequent lemmas.
// n == 0 returns none and a negative n returns all of them.
func MostCommon(texts []string, n int) ([]preprocess.Entry, error) {
	pp, err := defaultPreprocessor()
	if err != nil {
		return nil, err
	}
	records := make([]preprocess.Record, len(texts))
	for i, t := range texts {
		records[i] = preprocess.Text(t)
	}
	return pp.Frequencies(context.Background(), records, n)
}
