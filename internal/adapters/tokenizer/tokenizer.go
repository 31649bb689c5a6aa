// Package tokenizer implements abbreviation-aware sentence splitting and word
// tokenization driven by the punkt and punkt_tab resource tables.
//
// Words follows the usual treebank conventions: punctuation clusters are
// detached from words, a trailing period stays attached to a known
// abbreviation, and word-internal punctuation (e-mail, т.е) is kept.
// Runs of letters and digits glued together are split apart (abc123 gives
// abc and 123).
// Letters of any script are handled the same way, so a tokenizer configured
// for Russian splits Latin words correctly.
//
// A Tokenizer is immutable and safe for concurrent use.
package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
	"github.com/baditaflorin/go_text_preprocessing/internal/ports"
)

// Tokenizer splits text using tables loaded from resource bundles.
type Tokenizer struct {
	data domain.TokenizerData
}

// New creates a tokenizer from loaded tables.
func New(data domain.TokenizerData) ports.Tokenizer {
	return &Tokenizer{data: data}
}

// Sentences splits text into trimmed sentences.
func (t *Tokenizer) Sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !t.isEnder(r) {
			i += size
			continue
		}

		// Swallow the whole terminator cluster and any closing quotes.
		end := i + size
		for end < len(text) {
			next, n := utf8.DecodeRuneInString(text[end:])
			if !t.isEnder(next) && !t.isCloser(next) {
				break
			}
			end += n
		}

		if t.isBoundary(text, start, i, r, end) {
			if s := strings.TrimSpace(text[start:end]); s != "" {
				out = append(out, s)
			}
			start = end
		}
		i = end
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// isBoundary decides whether the terminator r at text[pos] ending at end
// closes the sentence that started at start.
func (t *Tokenizer) isBoundary(text string, start, pos int, r rune, end int) bool {
	if end < len(text) {
		next, _ := utf8.DecodeRuneInString(text[end:])
		if !unicode.IsSpace(next) {
			return false
		}
	}
	if r != '.' || end-pos > 1 {
		return true
	}

	word := lastWord(text[start:pos])
	if t.isAbbreviation(word) {
		return false
	}

	// A lowercase continuation means the period did not end the sentence.
	rest := strings.TrimLeftFunc(text[end:], unicode.IsSpace)
	if rest != "" {
		next, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsLower(next) {
			return false
		}
	}
	return true
}

// Words splits text into sentences and each sentence into word and
// punctuation tokens.
func (t *Tokenizer) Words(text string) []string {
	var out []string
	for _, sentence := range t.Sentences(text) {
		for _, field := range strings.FieldsFunc(sentence, unicode.IsSpace) {
			out = t.appendField(out, field)
		}
	}
	return out
}

// appendField detaches leading and trailing punctuation from a
// whitespace-delimited field.
func (t *Tokenizer) appendField(out []string, field string) []string {
	for field != "" {
		r, size := utf8.DecodeRuneInString(field)
		if !t.isDetachable(r) {
			break
		}
		n := clusterLen(field, r, size)
		out = append(out, field[:n])
		field = field[n:]
	}
	if field == "" {
		return out
	}

	var tail []string
	for field != "" {
		r, size := utf8.DecodeLastRuneInString(field)
		if !t.isDetachable(r) {
			break
		}
		if r == '.' && t.isAbbreviation(strings.TrimSuffix(field, ".")) {
			break
		}
		n := size
		for n < len(field) {
			prev, psize := utf8.DecodeLastRuneInString(field[:len(field)-n])
			if prev != r {
				break
			}
			n += psize
		}
		tail = append(tail, field[len(field)-n:])
		field = field[:len(field)-n]
	}

	if field != "" {
		out = appendAlnumRuns(out, field)
	}
	for i := len(tail) - 1; i >= 0; i-- {
		out = append(out, tail[i])
	}
	return out
}

func (t *Tokenizer) isAbbreviation(word string) bool {
	if word == "" {
		return false
	}
	_, ok := t.data.Abbreviations[strings.ToLower(word)]
	return ok
}

func (t *Tokenizer) isEnder(r rune) bool {
	_, ok := t.data.SentenceEnders[r]
	return ok
}

func (t *Tokenizer) isCloser(r rune) bool {
	_, ok := t.data.Closers[r]
	return ok
}

func (t *Tokenizer) isDetachable(r rune) bool {
	if _, ok := t.data.Splitters[r]; ok {
		return true
	}
	return t.isEnder(r) || t.isCloser(r)
}

// appendAlnumRuns appends word, cut wherever a letter directly touches a digit.
func appendAlnumRuns(out []string, word string) []string {
	start := 0
	prev := 0
	for i, r := range word {
		cls := 0
		switch {
		case unicode.IsLetter(r):
			cls = 1
		case unicode.IsDigit(r):
			cls = 2
		}
		if prev != 0 && cls != 0 && cls != prev {
			out = append(out, word[start:i])
			start = i
		}
		prev = cls
	}
	return append(out, word[start:])
}

// clusterLen returns the byte length of the run of r at the start of s.
func clusterLen(s string, r rune, size int) int {
	n := size
	for n < len(s) {
		next, nsize := utf8.DecodeRuneInString(s[n:])
		if next != r {
			break
		}
		n += nsize
	}
	return n
}

// lastWord returns the trailing non-space run of s without surrounding
// punctuation other than internal periods.
func lastWord(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	i := strings.LastIndexFunc(s, unicode.IsSpace)
	word := s[i+1:]
	return strings.TrimLeftFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
