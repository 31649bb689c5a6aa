package morph

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
)

const (
	// maxSuffixLen is the longest form ending used to pick rewrite rules.
	maxSuffixLen = 5
	// minStemLen is the shortest stem shared by a form and its lemma that
	// still yields a rule, and the shortest stem left after rewriting.
	minStemLen = 2
	// minPredictLen is the shortest unknown word prediction is attempted for.
	minPredictLen = 3
	// minRuleSupport is how many distinct dictionary lemmas must share a
	// rewrite before it is used for prediction.
	minRuleSupport = 3
	// minPredictShare is the part of the applicable support the winning lemma
	// needs; below it the ending is too ambiguous to guess from.
	minPredictShare = 0.6
	// predictionWeight scales predicted scores below dictionary scores.
	predictionWeight = 0.5
)

// suffixRule rewrites a form ending into a lemma ending. support is the
// number of distinct lemmas the rewrite was seen with.
type suffixRule struct {
	cut, add string
	tag      string
	support  int
}

// learnSuffixRules collects, for every form ending up to maxSuffixLen runes,
// the cut/add rewrites seen in the dictionary. Rewrites backed by fewer than
// minRuleSupport lemmas are dropped.
func learnSuffixRules(entries []entry) map[string][]suffixRule {
	type key struct{ suffix, cut, add, tag string }
	lemmas := make(map[key]map[string]struct{})

	for _, e := range entries {
		form, lemma := []rune(e.form), []rune(e.lemma)
		p := commonPrefix(form, lemma)
		if p < minStemLen {
			continue
		}
		cut, add := string(form[p:]), string(lemma[p:])
		minN := len(form) - p
		if minN < 1 {
			minN = 1
		}
		for n := minN; n <= maxSuffixLen && n < len(form); n++ {
			k := key{string(form[len(form)-n:]), cut, add, e.tag}
			if lemmas[k] == nil {
				lemmas[k] = make(map[string]struct{})
			}
			lemmas[k][e.lemma] = struct{}{}
		}
	}

	rules := make(map[string][]suffixRule)
	for k, set := range lemmas {
		if len(set) < minRuleSupport {
			continue
		}
		rules[k.suffix] = append(rules[k.suffix], suffixRule{cut: k.cut, add: k.add, tag: k.tag, support: len(set)})
	}
	for _, rs := range rules {
		sort.Slice(rs, func(i, j int) bool {
			if rs[i].support != rs[j].support {
				return rs[i].support > rs[j].support
			}
			if rs[i].cut != rs[j].cut {
				return rs[i].cut < rs[j].cut
			}
			if rs[i].add != rs[j].add {
				return rs[i].add < rs[j].add
			}
			return rs[i].tag < rs[j].tag
		})
	}
	return rules
}

// predict guesses lemmas for an unknown word from the rules attached to its
// longest known ending. It returns nil when no backed rule applies or when
// no single lemma holds minPredictShare of the support.
func (d *Dictionary) predict(word string) []domain.Parse {
	runes := []rune(word)
	if len(runes) < minPredictLen {
		return nil
	}

	for n := min(maxSuffixLen, len(runes)-1); n >= 1; n-- {
		rules := d.rules[string(runes[len(runes)-n:])]
		if len(rules) == 0 {
			continue
		}

		scores := make(map[string]int)
		tags := make(map[string]string)
		total := 0
		for _, r := range rules {
			if !strings.HasSuffix(word, r.cut) {
				continue
			}
			stem := word[:len(word)-len(r.cut)]
			if utf8.RuneCountInString(stem) < minStemLen {
				continue
			}
			lemma := stem + r.add
			if _, seen := tags[lemma]; !seen {
				tags[lemma] = r.tag
			}
			scores[lemma] += r.support
			total += r.support
		}
		if total == 0 {
			continue
		}
		top := 0
		for _, c := range scores {
			top = max(top, c)
		}
		if float64(top) < minPredictShare*float64(total) {
			return nil
		}

		parses := make([]domain.Parse, 0, len(scores))
		for lemma, c := range scores {
			parses = append(parses, domain.Parse{
				Word:       word,
				NormalForm: lemma,
				Tag:        domain.TagPredicted + "," + tags[lemma],
				Score:      predictionWeight * float64(c) / float64(total),
			})
		}
		sortParses(parses)
		return parses
	}
	return nil
}

func commonPrefix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
