// Package frequency counts lemma occurrences across normalized records.
package frequency

import (
	"sort"
	"strings"
)

// Entry is one token with its number of occurrences.
type Entry struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// Counter accumulates token counts. Tokens keep the order in which they
// were first seen, which breaks ties in MostCommon.
// A Counter is not safe for concurrent use.
type Counter struct {
	index   map[string]int
	entries []Entry
	total   int
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{index: make(map[string]int)}
}

// Add counts every space separated token of text.
func (c *Counter) Add(text string) {
	for _, token := range strings.Fields(text) {
		c.AddToken(token)
	}
}

// AddToken counts a single token.
func (c *Counter) AddToken(token string) {
	if token == "" {
		return
	}
	i, ok := c.index[token]
	if !ok {
		i = len(c.entries)
		c.index[token] = i
		c.entries = append(c.entries, Entry{Token: token})
	}
	c.entries[i].Count++
	c.total++
}

// Count builds a counter over a batch of normalized texts.
func Count(texts []string) *Counter {
	c := NewCounter()
	for _, text := range texts {
		c.Add(text)
	}
	return c
}

// Get returns the count for token.
func (c *Counter) Get(token string) int {
	if i, ok := c.index[token]; ok {
		return c.entries[i].Count
	}
	return 0
}

// All asks MostCommon for every token.
const All = -1

// MostCommon returns the n most frequent tokens, highest count first.
// n == 0 returns an empty list and a negative n returns every token.
func (c *Counter) MostCommon(n int) []Entry {
	if n == 0 {
		return []Entry{}
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Total is the number of tokens counted.
func (c *Counter) Total() int { return c.total }

// Len is the number of distinct tokens.
func (c *Counter) Len() int { return len(c.entries) }
