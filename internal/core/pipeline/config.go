package pipeline

import (
	"errors"

	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
)

// Config holds configuration for the preprocessing pipeline.
type Config struct {
	// Workers is the size of the worker pool. 0 means runtime.NumCPU(),
	// 1 processes records sequentially.
	Workers int
	// NullPolicy decides what happens to null records.
	NullPolicy domain.NullPolicy
	// Memoize caches lemma lookups for the duration of one call.
	Memoize bool
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Workers:    0,
		NullPolicy: domain.NullAsEmpty,
		Memoize:    true,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	switch c.NullPolicy {
	case domain.NullAsEmpty, domain.NullFail:
	default:
		return errors.New("unknown null policy")
	}
	return nil
}
