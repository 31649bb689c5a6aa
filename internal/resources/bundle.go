// Package resources locates, fetches and loads the linguistic data the
// preprocessing pipeline depends on. Directory names follow the NLTK data
// tree but the files are plain-text tables of this package's own format, so
// the data directory must be a dedicated one, not an NLTK installation.
package resources

import (
	"fmt"
	"path"
)

// Bundle names.
const (
	PunktBundle     = "punkt"
	PunktTabBundle  = "punkt_tab"
	StopwordsBundle = "stopwords"
)

// Bundle describes one installable resource: a directory relative to the data
// root and the files that must exist in it.
type Bundle struct {
	Name  string
	Dir   string
	Files []string
}

// FilePaths returns the slash-separated paths of the bundle files relative to
// the data root.
func (b Bundle) FilePaths() []string {
	out := make([]string, len(b.Files))
	for i, f := range b.Files {
		out[i] = path.Join(b.Dir, f)
	}
	return out
}

var registry = map[string]Bundle{
	PunktBundle: {
		Name:  PunktBundle,
		Dir:   "tokenizers/punkt",
		Files: []string{"russian/abbrev_types.txt", "english/abbrev_types.txt"},
	},
	PunktTabBundle: {
		Name:  PunktTabBundle,
		Dir:   "tokenizers/punkt_tab",
		Files: []string{"russian/boundaries.tab", "english/boundaries.tab"},
	},
	StopwordsBundle: {
		Name:  StopwordsBundle,
		Dir:   "corpora/stopwords",
		Files: []string{"russian", "english"},
	},
}

// LookupBundle returns the registered bundle with the given name.
func LookupBundle(name string) (Bundle, error) {
	b, ok := registry[name]
	if !ok {
		return Bundle{}, fmt.Errorf("unknown resource bundle %q", name)
	}
	return b, nil
}

// RequiredBundles lists the bundles the pipeline needs, in acquisition order.
func RequiredBundles() []string {
	return []string{PunktBundle, PunktTabBundle, StopwordsBundle}
}
