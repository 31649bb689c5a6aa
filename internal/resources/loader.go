package resources

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
)

// StopwordLanguages are the stopword lists merged into the pipeline's set.
var StopwordLanguages = []string{"russian", "english"}

// load reads the bundles found at dirs (bundle name -> directory) into a
// Resources value for the given tokenizer language.
func load(dirs map[string]string, language string) (*domain.Resources, error) {
	abbrevLines, err := readLines(filepath.Join(dirs[PunktBundle], language, "abbrev_types.txt"))
	if err != nil {
		return nil, err
	}
	abbrevs := make(map[string]struct{}, len(abbrevLines))
	for _, a := range abbrevLines {
		abbrevs[strings.ToLower(strings.TrimSuffix(a, "."))] = struct{}{}
	}

	tab, err := readLines(filepath.Join(dirs[PunktTabBundle], language, "boundaries.tab"))
	if err != nil {
		return nil, err
	}
	enders, err := parseBoundaries(tab)
	if err != nil {
		return nil, err
	}

	lists := make([][]string, 0, len(StopwordLanguages))
	for _, lang := range StopwordLanguages {
		words, err := readLines(filepath.Join(dirs[StopwordsBundle], lang))
		if err != nil {
			return nil, err
		}
		lists = append(lists, words)
	}

	return &domain.Resources{
		Tokenizer: domain.TokenizerData{
			Language:       language,
			Abbreviations:  abbrevs,
			SentenceEnders: enders["end"],
			Closers:        enders["close"],
			Splitters:      enders["split"],
		},
		Stopwords: domain.NewStopwordSet(lists...),
	}, nil
}

// parseBoundaries reads "kind<TAB>characters" lines into rune sets.
func parseBoundaries(lines []string) (map[string]map[rune]struct{}, error) {
	out := make(map[string]map[rune]struct{})
	for _, line := range lines {
		kind, chars, ok := strings.Cut(line, "\t")
		if !ok || !utf8.ValidString(chars) {
			return nil, fmt.Errorf("malformed boundary table line %q", line)
		}
		set := out[kind]
		if set == nil {
			set = make(map[rune]struct{})
			out[kind] = set
		}
		for _, r := range chars {
			set[r] = struct{}{}
		}
	}
	if len(out["end"]) == 0 {
		return nil, fmt.Errorf("boundary table has no sentence terminators")
	}
	return out, nil
}

// readLines returns the trimmed, non-empty, non-comment lines of a file.
func readLines(p string) ([]string, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, strings.TrimSpace(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return out, nil
}
