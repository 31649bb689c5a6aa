package warmup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_text_preprocessing/internal/adapters/logger"
	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
)

type countingNormalizer struct{ calls atomic.Int64 }

func (n *countingNormalizer) Normalize(text string) string {
	n.calls.Add(1)
	return text
}

type countingPipeline struct{ records atomic.Int64 }

func (p *countingPipeline) NormalizeStrings(_ context.Context, texts []string) ([]string, error) {
	p.records.Add(int64(len(texts)))
	return texts, nil
}

type staticProvider struct {
	calls int
	err   error
}

func (s *staticProvider) Ensure(context.Context) (*domain.Resources, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Resources{}, nil
}

func testConfig() WarmupConfig {
	return WarmupConfig{Concurrency: 2, Iterations: 3, BatchSize: 4}
}

func TestWarmUpRunsRegisteredComponents(t *testing.T) {
	provider := &staticProvider{}
	m := NewManager(logger.NewNopLogger(), provider, testConfig())

	norm := &countingNormalizer{}
	pipe := &countingPipeline{}
	m.RegisterNormalizer(norm)
	m.RegisterPipeline(pipe)

	require.NoError(t, m.WarmUp(context.Background()))
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, int64(2*3), norm.calls.Load())
	assert.Equal(t, int64(2*3*4), pipe.records.Load())
}

func TestWarmUpStopsOnResourceFailure(t *testing.T) {
	provider := &staticProvider{err: domain.ErrResourceUnavailable}
	m := NewManager(logger.NewNopLogger(), provider, testConfig())
	pipe := &countingPipeline{}
	m.RegisterPipeline(pipe)

	err := m.WarmUp(context.Background())
	assert.True(t, errors.Is(err, domain.ErrResourceUnavailable))
	assert.Zero(t, pipe.records.Load())
}

func TestWarmUpHonoursCancelledContext(t *testing.T) {
	m := NewManager(logger.NewNopLogger(), nil, testConfig())
	norm := &countingNormalizer{}
	m.RegisterNormalizer(norm)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, m.WarmUp(ctx))
	assert.Zero(t, norm.calls.Load())
}

func TestGenerateSampleBatch(t *testing.T) {
	assert.Len(t, generateSampleBatch(10), 10)
	assert.Len(t, generateSampleBatch(0), 1)
}
