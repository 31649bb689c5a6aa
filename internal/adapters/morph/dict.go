package morph

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
)

// dict.txt lists irregular and closed-class forms one per line.
//
//go:embed dict.txt
var dictRaw []byte

// paradigms.txt holds the inflection classes lexicon.txt refers to.
//
//go:embed paradigms.txt
var paradigmsRaw []byte

//go:embed lexicon.txt
var lexiconRaw []byte

// Dictionary maps surface forms to their analyses, best first.
type Dictionary struct {
	forms map[string][]domain.Parse
	rules map[string][]suffixRule
}

// entry is one dictionary line before grouping.
type entry struct {
	form, lemma, tag string
	freq             int
}

// Paradigm is an inflection class: the endings a stem takes, starting with
// the ending of the dictionary form.
type Paradigm struct {
	Name    string
	Tag     string
	Endings []string
}

// LoadDictionary parses "form<TAB>lemma<TAB>tag<TAB>freq" lines. Blank lines
// and lines starting with '#' are skipped.
func LoadDictionary(r io.Reader) (*Dictionary, error) {
	entries, err := readForms(r)
	if err != nil {
		return nil, err
	}
	return newDictionary(entries), nil
}

// BuildDictionary combines explicit form lines with a lexicon of
// "lemma<TAB>paradigm<TAB>freq" lines expanded through paradigms.
func BuildDictionary(forms, paradigms, lexicon io.Reader) (*Dictionary, error) {
	entries, err := readForms(forms)
	if err != nil {
		return nil, err
	}
	classes, err := LoadParadigms(paradigms)
	if err != nil {
		return nil, err
	}
	expanded, err := expandLexicon(lexicon, classes)
	if err != nil {
		return nil, err
	}
	return newDictionary(append(entries, expanded...)), nil
}

// embeddedDictionary parses the data compiled into the binary once per process.
var embeddedDictionary = sync.OnceValues(func() (*Dictionary, error) {
	return BuildDictionary(bytes.NewReader(dictRaw), bytes.NewReader(paradigmsRaw), bytes.NewReader(lexiconRaw))
})

// Lookup returns the ranked analyses of a known form.
func (d *Dictionary) Lookup(form string) ([]domain.Parse, bool) {
	p, ok := d.forms[form]
	return p, ok
}

// Len returns the number of distinct forms.
func (d *Dictionary) Len() int {
	return len(d.forms)
}

func newDictionary(entries []entry) *Dictionary {
	return &Dictionary{
		forms: groupForms(entries),
		rules: learnSuffixRules(entries),
	}
}

// scanLines calls fn with the tab-separated fields of every data line.
func scanLines(r io.Reader, what string, fields int, fn func(lineNo int, parts []string) error) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != fields {
			return fmt.Errorf("%s line %d: want %d fields, got %d", what, lineNo, fields, len(parts))
		}
		if err := fn(lineNo, parts); err != nil {
			return err
		}
	}
	return sc.Err()
}

func parseFreq(what string, lineNo int, s string) (int, error) {
	freq, err := strconv.Atoi(s)
	if err != nil || freq <= 0 {
		return 0, fmt.Errorf("%s line %d: bad frequency %q", what, lineNo, s)
	}
	return freq, nil
}

func readForms(r io.Reader) ([]entry, error) {
	var entries []entry
	err := scanLines(r, "dictionary", 4, func(lineNo int, parts []string) error {
		freq, err := parseFreq("dictionary", lineNo, parts[3])
		if err != nil {
			return err
		}
		entries = append(entries, entry{
			form:  strings.ToLower(parts[0]),
			lemma: strings.ToLower(parts[1]),
			tag:   parts[2],
			freq:  freq,
		})
		return nil
	})
	return entries, err
}

// LoadParadigms parses "name<TAB>tag<TAB>endings" lines, endings separated by
// spaces with "-" standing for the empty ending.
func LoadParadigms(r io.Reader) (map[string]Paradigm, error) {
	classes := make(map[string]Paradigm)
	err := scanLines(r, "paradigm", 3, func(lineNo int, parts []string) error {
		fields := strings.Fields(parts[2])
		if len(fields) == 0 {
			return fmt.Errorf("paradigm line %d: no endings", lineNo)
		}
		if _, dup := classes[parts[0]]; dup {
			return fmt.Errorf("paradigm line %d: duplicate paradigm %q", lineNo, parts[0])
		}
		endings := make([]string, len(fields))
		for i, f := range fields {
			if f != "-" {
				endings[i] = f
			}
		}
		classes[parts[0]] = Paradigm{Name: parts[0], Tag: parts[1], Endings: endings}
		return nil
	})
	return classes, err
}

// Forms returns every form of lemma in this paradigm, lemma first. Verb
// lemmas ending in "ся" are inflected without it and get the reflexive
// postfix back on every form.
func (p Paradigm) Forms(lemma string) ([]string, error) {
	base, reflexive := lemma, false
	if p.Tag == "INFN" && strings.HasSuffix(lemma, "ся") {
		base, reflexive = strings.TrimSuffix(lemma, "ся"), true
	}
	if !strings.HasSuffix(base, p.Endings[0]) {
		return nil, fmt.Errorf("lemma %q does not end in %q of paradigm %s", lemma, p.Endings[0], p.Name)
	}
	stem := strings.TrimSuffix(base, p.Endings[0])

	forms := make([]string, 0, len(p.Endings))
	for _, ending := range p.Endings {
		form := stem + ending
		if reflexive {
			form += reflexivePostfix(form)
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// reflexivePostfix is "сь" after a vowel and "ся" otherwise.
func reflexivePostfix(form string) string {
	if strings.ContainsRune("аеёиоуыэюя", lastRune(form)) {
		return "сь"
	}
	return "ся"
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}

func expandLexicon(r io.Reader, classes map[string]Paradigm) ([]entry, error) {
	var entries []entry
	err := scanLines(r, "lexicon", 3, func(lineNo int, parts []string) error {
		p, ok := classes[parts[1]]
		if !ok {
			return fmt.Errorf("lexicon line %d: unknown paradigm %q", lineNo, parts[1])
		}
		freq, err := parseFreq("lexicon", lineNo, parts[2])
		if err != nil {
			return err
		}
		lemma := strings.ToLower(parts[0])
		forms, err := p.Forms(lemma)
		if err != nil {
			return fmt.Errorf("lexicon line %d: %w", lineNo, err)
		}
		for _, form := range forms {
			entries = append(entries, entry{form: form, lemma: lemma, tag: p.Tag, freq: freq})
		}
		return nil
	})
	return entries, err
}

// groupForms collects the analyses of every form. A lemma and tag listed
// more than once for the same form keeps its highest frequency.
func groupForms(entries []entry) map[string][]domain.Parse {
	type key struct{ form, lemma, tag string }
	freqs := make(map[key]int)
	var order []key
	for _, e := range entries {
		k := key{e.form, e.lemma, e.tag}
		prev, seen := freqs[k]
		if !seen {
			order = append(order, k)
		}
		if e.freq > prev {
			freqs[k] = e.freq
		}
	}

	totals := make(map[string]int)
	for _, k := range order {
		totals[k.form] += freqs[k]
	}

	forms := make(map[string][]domain.Parse, len(totals))
	for _, k := range order {
		forms[k.form] = append(forms[k.form], domain.Parse{
			Word:       k.form,
			NormalForm: k.lemma,
			Tag:        k.tag,
			Score:      float64(freqs[k]) / float64(totals[k.form]),
		})
	}
	for _, parses := range forms {
		sortParses(parses)
	}
	return forms
}

// sortParses orders by descending score, then lemma, so ties resolve the
// same way on every run.
func sortParses(parses []domain.Parse) {
	sort.SliceStable(parses, func(i, j int) bool {
		if parses[i].Score != parses[j].Score {
			return parses[i].Score > parses[j].Score
		}
		return parses[i].NormalForm < parses[j].NormalForm
	})
}
