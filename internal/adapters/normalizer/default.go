package normalizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/baditaflorin/go_text_preprocessing/internal/ports"
)

// nonWordRun matches a maximal run of characters that are neither word
// characters (letters, numbers, underscore) nor whitespace.
var nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}_\t\n\v\f\r \x{0085}\p{Z}]+`)

// Options tune the cleaning steps shared by every normalizer.
type Options struct {
	// ComposeNFC applies Unicode NFC before lowercasing.
	ComposeNFC bool
}

// DefaultOptions enables NFC composition.
func DefaultOptions() Options {
	return Options{ComposeNFC: true}
}

// DefaultNormalizer implements the regular-expression cleaning strategy.
type DefaultNormalizer struct {
	opts Options
}

// NewDefaultNormalizer creates a new default normalizer.
func NewDefaultNormalizer(opts Options) ports.Normalizer {
	return &DefaultNormalizer{opts: opts}
}

// Normalize lowercases the text and replaces every run of punctuation or
// symbols with a single space. Existing whitespace is left untouched.
func (n *DefaultNormalizer) Normalize(text string) string {
	if n.opts.ComposeNFC {
		text = norm.NFC.String(text)
	}
	text = strings.ToLower(text)
	return nonWordRun.ReplaceAllString(text, " ")
}
