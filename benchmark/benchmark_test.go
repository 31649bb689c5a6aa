package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/baditaflorin/go_text_preprocessing/internal/adapters/normalizer"
	"github.com/baditaflorin/go_text_preprocessing/internal/resources"
	"github.com/baditaflorin/go_text_preprocessing/pkg/preprocess"
)

var sample = []string{
	"Кошки любят молоко, а собаки любят мясо!",
	"Студенты университета читают книги о программировании.",
	"The quick brown fox jumps over the lazy dog.",
	"Цена: 100 руб. (скидка 10%) -- хорошие новости из большого города...",
}

// generateText creates a text of the specified size by repeating the samples
func generateText(size int) string {
	if size <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(size + 128)
	for i := 0; sb.Len() < size; i++ {
		sb.WriteString(sample[i%len(sample)])
		sb.WriteByte(' ')
	}
	return sb.String()
}

// generateBatch creates n records cycling through the samples
func generateBatch(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = sample[i%len(sample)]
	}
	return out
}

func newPreprocessor(b *testing.B, opts ...preprocess.Option) *preprocess.Preprocessor {
	b.Helper()
	m := resources.NewManager(resources.NewStore(b.TempDir()), resources.NewEmbeddedFetcher())
	opts = append([]preprocess.Option{preprocess.WithQuietLogger(), preprocess.WithResourceManager(m)}, opts...)
	pp, err := preprocess.New(opts...)
	if err != nil {
		b.Fatal(err)
	}
	if _, err := m.Ensure(context.Background()); err != nil {
		b.Fatal(err)
	}
	return pp
}

// BenchmarkNormalizers compares the regex and table driven text cleaners
func BenchmarkNormalizers(b *testing.B) {
	sizes := []struct {
		name string
		size int
	}{
		{"Small", 100},
		{"Medium", 10000},
		{"Large", 100000},
	}
	types := []struct {
		name     string
		normType normalizer.NormalizerType
	}{
		{"Default", normalizer.DefaultNormalizerType},
		{"Fast", normalizer.FastNormalizerType},
	}

	factory := normalizer.NewNormalizerFactory(normalizer.DefaultOptions())
	for _, tp := range types {
		norm := factory.CreateNormalizer(tp.normType)
		for _, sz := range sizes {
			input := generateText(sz.size)
			b.Run(tp.name+"-"+sz.name, func(b *testing.B) {
				b.ReportAllocs()
				b.SetBytes(int64(len(input)))
				for i := 0; i < b.N; i++ {
					_ = norm.Normalize(input)
				}
			})
		}
	}
}

// BenchmarkPipeline measures whole batches with different pool sizes
func BenchmarkPipeline(b *testing.B) {
	ctx := context.Background()
	batch := generateBatch(1000)

	for _, workers := range []int{1, 4, 0} {
		b.Run(fmt.Sprintf("Workers-%d", workers), func(b *testing.B) {
			pp := newPreprocessor(b, preprocess.WithWorkers(workers), preprocess.WithFastNormalizer())
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := pp.NormalizeStrings(ctx, batch); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkMemoization compares runs with and without the lemma cache
func BenchmarkMemoization(b *testing.B) {
	ctx := context.Background()
	batch := generateBatch(1000)

	for _, memo := range []bool{true, false} {
		b.Run(fmt.Sprintf("Memoize-%v", memo), func(b *testing.B) {
			pp := newPreprocessor(b, preprocess.WithWorkers(1), preprocess.WithMemoization(memo))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := pp.NormalizeStrings(ctx, batch); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkStemmingFallback measures the Snowball fallback chain
func BenchmarkStemmingFallback(b *testing.B) {
	ctx := context.Background()
	batch := generateBatch(1000)

	pp := newPreprocessor(b, preprocess.WithStemmingFallback(true), preprocess.WithMemoization(false))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pp.NormalizeStrings(ctx, batch); err != nil {
			b.Fatal(err)
		}
	}
}
