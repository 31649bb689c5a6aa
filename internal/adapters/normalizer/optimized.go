package normalizer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/baditaflorin/go_text_preprocessing/internal/pool"
	"github.com/baditaflorin/go_text_preprocessing/internal/ports"
)

const (
	classKeep    byte = iota // word character or whitespace, copied as is
	classReplace             // part of a run collapsed to one space
	classLower               // ASCII upper case letter
)

// FastNormalizer produces the same output as DefaultNormalizer with a
// precomputed ASCII table and pooled buffers instead of a regexp.
type FastNormalizer struct {
	opts       Options
	asciiTable [utf8.RuneSelf]byte
	bytePool   *pool.BufferPool
}

// NewFastNormalizer creates a new fast normalizer with precomputed tables.
func NewFastNormalizer(opts Options) ports.Normalizer {
	n := &FastNormalizer{
		opts:     opts,
		bytePool: pool.NewBufferPool(4096),
	}

	for i := 0; i < utf8.RuneSelf; i++ {
		r := rune(i)
		switch {
		case unicode.IsUpper(r):
			n.asciiTable[i] = classLower
		case isWordRune(r) || unicode.IsSpace(r):
			n.asciiTable[i] = classKeep
		default:
			n.asciiTable[i] = classReplace
		}
	}

	return n
}

// Normalize lowercases the text and replaces every run of punctuation or
// symbols with a single space.
func (n *FastNormalizer) Normalize(text string) string {
	if len(text) == 0 {
		return ""
	}
	if n.opts.ComposeNFC {
		text = norm.NFC.String(text)
	}

	buffer := n.bytePool.Get()
	defer n.bytePool.Put(buffer)

	if cap(*buffer) < len(text) {
		*buffer = make([]byte, 0, len(text))
	}

	inRun := false
	for _, r := range text {
		var class byte
		if r < utf8.RuneSelf {
			class = n.asciiTable[r]
		} else if isWordRune(r) || unicode.IsSpace(r) {
			class = classKeep
		} else {
			class = classReplace
		}

		switch class {
		case classReplace:
			if !inRun {
				*buffer = append(*buffer, ' ')
				inRun = true
			}
		case classLower:
			*buffer = append(*buffer, byte(r)+('a'-'A'))
			inRun = false
		default:
			if r < utf8.RuneSelf {
				*buffer = append(*buffer, byte(r))
			} else {
				*buffer = utf8.AppendRune(*buffer, unicode.ToLower(r))
			}
			inRun = false
		}
	}

	return string(*buffer)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
