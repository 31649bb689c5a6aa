package normalizer

import "github.com/baditaflorin/go_text_preprocessing/internal/ports"

// NormalizerType selects a cleaning strategy.
type NormalizerType int

const (
	// DefaultNormalizerType uses a regular expression.
	DefaultNormalizerType NormalizerType = iota
	// FastNormalizerType uses precomputed tables and pooled buffers.
	FastNormalizerType
)

// NormalizerFactory creates normalizers sharing one set of options.
type NormalizerFactory struct {
	opts Options
}

// NewNormalizerFactory creates a new normalizer factory.
func NewNormalizerFactory(opts Options) *NormalizerFactory {
	return &NormalizerFactory{opts: opts}
}

// CreateNormalizer creates a normalizer of the specified type.
func (f *NormalizerFactory) CreateNormalizer(normalizerType NormalizerType) ports.Normalizer {
	switch normalizerType {
	case FastNormalizerType:
		return NewFastNormalizer(f.opts)
	default:
		return NewDefaultNormalizer(f.opts)
	}
}
