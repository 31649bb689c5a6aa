package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizersCollapsePunctuationRuns(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "punctuation run", in: "Hello,,,   world!!", want: "hello    world "},
		{name: "mixed run", in: "abc123 #$% def", want: "abc123   def"},
		{name: "underscore is a word character", in: "snake_case-word", want: "snake_case word"},
		{name: "cyrillic", in: "Привет, Мир!", want: "привет  мир "},
		{name: "symbols", in: "цена: 100€ (скидка)", want: "цена  100   скидка "},
		{name: "tabs and newlines kept", in: "a\tb\nc", want: "a\tb\nc"},
		{name: "non-breaking space kept", in: "a\u00a0b", want: "a\u00a0b"},
		{name: "emoji", in: "ok👍👍ok", want: "ok ok"},
	}

	factory := NewNormalizerFactory(DefaultOptions())
	normalizers := map[string]NormalizerType{
		"default": DefaultNormalizerType,
		"fast":    FastNormalizerType,
	}

	for name, typ := range normalizers {
		n := factory.CreateNormalizer(typ)
		for _, tc := range tests {
			t.Run(name+"/"+tc.name, func(t *testing.T) {
				assert.Equal(t, tc.want, n.Normalize(tc.in))
			})
		}
	}
}

func TestNormalizersAgree(t *testing.T) {
	inputs := []string{
		"The Quick Brown Fox — jumps over «the» lazy dog…",
		"Съешь же ещё этих мягких французских булок, да выпей чаю.",
		"ÀÉÎÕÜ ĞİŞ ǅ ß",
		"e-mail: user@example.com; tel. +7 (999) 123-45-67",
		"mixed line para\u0085next",
		"½ ² Ⅻ",
		"___",
	}

	opts := DefaultOptions()
	regex := NewDefaultNormalizer(opts)
	fast := NewFastNormalizer(opts)
	for _, in := range inputs {
		assert.Equal(t, regex.Normalize(in), fast.Normalize(in), "input %q", in)
	}
}

func TestComposeNFC(t *testing.T) {
	decomposed := "\u0438\u0306од"

	composed := NewDefaultNormalizer(Options{ComposeNFC: true}).Normalize(decomposed)
	assert.Equal(t, "йод", composed)

	raw := NewFastNormalizer(Options{ComposeNFC: false}).Normalize(decomposed)
	assert.Equal(t, "и од", raw)
}
