package domain

import "strings"

// StopwordSet is an immutable set of lowercase words.
type StopwordSet struct {
	words map[string]struct{}
}

// NewStopwordSet builds the union of the given word lists.
func NewStopwordSet(lists ...[]string) StopwordSet {
	size := 0
	for _, l := range lists {
		size += len(l)
	}
	words := make(map[string]struct{}, size)
	for _, l := range lists {
		for _, w := range l {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			words[w] = struct{}{}
		}
	}
	return StopwordSet{words: words}
}

// Contains reports whether word is a stopword, ignoring case.
func (s StopwordSet) Contains(word string) bool {
	if _, ok := s.words[word]; ok {
		return true
	}
	_, ok := s.words[strings.ToLower(word)]
	return ok
}

// Len returns the number of distinct stopwords.
func (s StopwordSet) Len() int {
	return len(s.words)
}

// TokenizerData holds the tables loaded from the tokenizer bundles.
type TokenizerData struct {
	Language       string
	Abbreviations  map[string]struct{}
	SentenceEnders map[rune]struct{}
	// Closers may trail a sentence terminator (quotes, brackets).
	Closers map[rune]struct{}
	// Splitters are detached from words as separate tokens.
	Splitters map[rune]struct{}
}

// Resources is the loaded, read-only set of linguistic data.
type Resources struct {
	Tokenizer TokenizerData
	Stopwords StopwordSet
}
