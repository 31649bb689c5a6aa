// Package morph provides morphological analyzers that map a surface word
// form to ranked candidate lemmas.
package morph

import (
	"unicode"

	"github.com/kljensen/snowball"

	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
	"github.com/baditaflorin/go_text_preprocessing/internal/ports"
)

// Script classifies the letters of a word.
type Script int

const (
	ScriptOther Script = iota
	ScriptCyrillic
	ScriptLatin
	ScriptMixed
)

// DetectScript reports which alphabet the letters of word belong to.
func DetectScript(word string) Script {
	var cyr, lat, other bool
	for _, r := range word {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyr = true
		case unicode.Is(unicode.Latin, r):
			lat = true
		case unicode.IsLetter(r):
			other = true
		}
	}
	switch {
	case cyr && !lat && !other:
		return ScriptCyrillic
	case lat && !cyr && !other:
		return ScriptLatin
	case cyr || lat:
		return ScriptMixed
	default:
		return ScriptOther
	}
}

// DictionaryAnalyzer looks words up in a form dictionary and predicts
// lemmas of unknown Cyrillic words from learned suffix rules.
type DictionaryAnalyzer struct {
	dict    *Dictionary
	predict bool
}

// DictionaryOption configures a DictionaryAnalyzer.
type DictionaryOption func(*DictionaryAnalyzer)

// WithPrediction toggles suffix-based prediction for unknown words.
func WithPrediction(enabled bool) DictionaryOption {
	return func(a *DictionaryAnalyzer) {
		a.predict = enabled
	}
}

// WithDictionary replaces the embedded dictionary.
func WithDictionary(d *Dictionary) DictionaryOption {
	return func(a *DictionaryAnalyzer) {
		a.dict = d
	}
}

// NewDictionaryAnalyzer creates an analyzer over the embedded Russian
// dictionary unless WithDictionary is given.
func NewDictionaryAnalyzer(opts ...DictionaryOption) (*DictionaryAnalyzer, error) {
	a := &DictionaryAnalyzer{predict: true}
	for _, opt := range opts {
		opt(a)
	}
	if a.dict == nil {
		d, err := embeddedDictionary()
		if err != nil {
			return nil, err
		}
		a.dict = d
	}
	return a, nil
}

// Parse returns the analyses of word, best first. Words the dictionary
// cannot explain are returned unchanged, tagged LATN for Latin script and
// UNKN otherwise.
func (a *DictionaryAnalyzer) Parse(word string) []domain.Parse {
	if parses, ok := a.dict.Lookup(word); ok {
		return parses
	}

	script := DetectScript(word)
	if script == ScriptCyrillic && a.predict {
		if parses := a.dict.predict(word); len(parses) > 0 {
			return parses
		}
	}

	tag := domain.TagUnknown
	if script == ScriptLatin {
		tag = domain.TagLatin
	}
	return []domain.Parse{{Word: word, NormalForm: word, Tag: tag, Score: 1}}
}

// StemmingAnalyzer reduces words to their Snowball stems.
type StemmingAnalyzer struct{}

// NewStemmingAnalyzer creates a Snowball-based analyzer for Russian and English.
func NewStemmingAnalyzer() ports.Analyzer {
	return StemmingAnalyzer{}
}

// Parse returns a single parse holding the stem of word.
func (StemmingAnalyzer) Parse(word string) []domain.Parse {
	var lang string
	switch DetectScript(word) {
	case ScriptCyrillic:
		lang = "russian"
	case ScriptLatin:
		lang = "english"
	default:
		return []domain.Parse{{Word: word, NormalForm: word, Tag: domain.TagUnknown, Score: 1}}
	}

	stem, err := snowball.Stem(word, lang, true)
	if err != nil || stem == "" {
		return []domain.Parse{{Word: word, NormalForm: word, Tag: domain.TagUnknown, Score: 1}}
	}
	return []domain.Parse{{Word: word, NormalForm: stem, Tag: domain.TagStem, Score: 1}}
}

// Chain consults analyzers in order and returns the first answer that is not
// a guess. When every analyzer guesses, the first analyzer's answer wins.
type Chain []ports.Analyzer

// Parse implements ports.Analyzer.
func (c Chain) Parse(word string) []domain.Parse {
	var first []domain.Parse
	for i, a := range c {
		parses := a.Parse(word)
		if i == 0 {
			first = parses
		}
		if best, ok := domain.Best(parses); ok && !best.IsGuess() {
			return parses
		}
	}
	if len(first) == 0 {
		return []domain.Parse{{Word: word, NormalForm: word, Tag: domain.TagUnknown, Score: 1}}
	}
	return first
}
