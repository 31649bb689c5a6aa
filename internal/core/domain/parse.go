package domain

import "strings"

// Parse is one analysis of a surface word form.
type Parse struct {
	Word       string
	NormalForm string
	Tag        string
	Score      float64
}

// Best returns the top ranked parse. Analyzers return parses ordered by
// descending score, so this is always the first element.
func Best(parses []Parse) (Parse, bool) {
	if len(parses) == 0 {
		return Parse{}, false
	}
	return parses[0], true
}

// Tags attached by analyzers to parses that did not come from a dictionary.
const (
	TagUnknown   = "UNKN"
	TagLatin     = "LATN"
	TagPredicted = "PREDICT"
	TagStem      = "STEM"
)

// IsGuess reports whether the parse was not backed by a dictionary entry.
func (p Parse) IsGuess() bool {
	return p.Tag == TagUnknown || p.Tag == TagLatin || strings.HasPrefix(p.Tag, TagPredicted)
}
