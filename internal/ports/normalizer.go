package ports

// Normalizer defines the interface for text cleaning before tokenization.
type Normalizer interface {
	Normalize(text string) string
}
