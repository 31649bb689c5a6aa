package warmup

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_text_preprocessing/internal/ports"
)

// WarmupConfig defines configuration for warming up the system
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Number of records in each sample batch
	BatchSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency: runtime.NumCPU(),
		Iterations:  50,
		BatchSize:   64,
		Duration:    5 * time.Second,
		ForceGC:     true,
	}
}

// Manager handles system warmup operations
type Manager struct {
	logger      ports.Logger
	resources   ports.ResourceProvider
	normalizers []ports.Normalizer
	pipelines   []ports.BatchNormalizer
	config      WarmupConfig
}

// NewManager creates a new warmup manager. resources may be nil when only
// normalizers are registered.
func NewManager(logger ports.Logger, resources ports.ResourceProvider, config WarmupConfig) *Manager {
	return &Manager{
		logger:    logger,
		resources: resources,
		config:    config,
	}
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// RegisterPipeline adds a batch normalizer to be warmed up
func (wm *Manager) RegisterPipeline(p ports.BatchNormalizer) {
	wm.pipelines = append(wm.pipelines, p)
}

// WarmUp acquires the linguistic resources and then runs sample batches
// through all registered components. Only a resource failure is returned;
// the sample runs are best effort.
func (wm *Manager) WarmUp(ctx context.Context) error {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.normalizers)+len(wm.pipelines),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	if wm.resources != nil {
		if _, err := wm.resources.Ensure(ctx); err != nil {
			wm.logger.Error("Warmup could not acquire resources", "error", err)
			return err
		}
	}

	var warmupCtx context.Context
	var cancel context.CancelFunc
	if wm.config.Duration > 0 {
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	} else {
		warmupCtx = ctx
	}

	batch := generateSampleBatch(wm.config.BatchSize)

	wm.warmUpNormalizers(warmupCtx, batch)
	wm.warmUpPipelines(warmupCtx, batch)

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
	)
	return nil
}

// parallel runs fn Iterations times on each of Concurrency goroutines,
// stopping early when ctx is done.
func (wm *Manager) parallel(ctx context.Context, fn func()) {
	concurrency := wm.config.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < wm.config.Iterations; j++ {
				if ctx.Err() != nil {
					return
				}
				fn()
			}
		}()
	}
	wg.Wait()
}

func (wm *Manager) warmUpNormalizers(ctx context.Context, batch []string) {
	if len(wm.normalizers) == 0 {
		return
	}
	wm.logger.Debug("Warming up normalizers", "count", len(wm.normalizers))

	text := strings.Join(batch, " ")
	wm.parallel(ctx, func() {
		for _, normalizer := range wm.normalizers {
			_ = normalizer.Normalize(text)
		}
	})
}

func (wm *Manager) warmUpPipelines(ctx context.Context, batch []string) {
	if len(wm.pipelines) == 0 {
		return
	}
	wm.logger.Debug("Warming up pipelines", "count", len(wm.pipelines))

	wm.parallel(ctx, func() {
		for _, p := range wm.pipelines {
			if _, err := p.NormalizeStrings(ctx, batch); err != nil && ctx.Err() == nil {
				wm.logger.Warn("Warmup batch failed", "error", err)
			}
		}
	})
}

var sampleSentences = []string{
	"Кошки любят молоко, а собаки любят мясо.",
	"Студенты университета читают книги о программировании!",
	"Мама мыла раму; папа читал газету.",
	"The quick brown fox jumps over the lazy dog.",
	"Цена: 100 руб. (скидка 10%)",
	"Хорошие новости из большого города...",
}

// generateSampleBatch builds size records cycling through mixed-language samples.
func generateSampleBatch(size int) []string {
	if size < 1 {
		size = 1
	}
	batch := make([]string, size)
	for i := range batch {
		batch[i] = sampleSentences[i%len(sampleSentences)]
	}
	return batch
}
