package ports

import (
	"context"

	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
)

// Tokenizer splits text into sentences and word tokens.
type Tokenizer interface {
	Sentences(text string) []string
	Words(text string) []string
}

// Analyzer maps a surface form to ranked candidate analyses.
// Implementations return at least one parse, best first.
type Analyzer interface {
	Parse(word string) []domain.Parse
}

// BatchNormalizer turns a batch of texts into normalized lemma strings.
type BatchNormalizer interface {
	NormalizeStrings(ctx context.Context, texts []string) ([]string, error)
}
