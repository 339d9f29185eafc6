// Package loadtest drives concurrent render passes through an alert panel
// renderer and reports throughput and latency percentiles.
package loadtest

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/platformbuilds/mirador-alert-panel/internal/models"
	"github.com/platformbuilds/mirador-alert-panel/internal/services"
	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	// Duration bounds the run; MaxRenders, when set, may end it earlier.
	Duration   time.Duration
	MaxRenders int64

	ConcurrentWorkers int

	// Batches are picked at random in proportion to their weight.
	Batches []Batch
}

// Batch is one render request replayed by the workers.
type Batch struct {
	Name    string
	Frames  []models.Frame
	Options models.PanelOptions
	Weight  int
}

// LoadTestResult holds the results of a load test
type LoadTestResult struct {
	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`
	TotalRenders  int64         `json:"total_renders" yaml:"total_renders"`
	RowsRendered  int64         `json:"rows_rendered" yaml:"rows_rendered"`
	AvgRenderTime time.Duration `json:"avg_render_time" yaml:"avg_render_time"`
	P95RenderTime time.Duration `json:"p95_render_time" yaml:"p95_render_time"`
	P99RenderTime time.Duration `json:"p99_render_time" yaml:"p99_render_time"`
	RendersPerSec float64       `json:"renders_per_sec" yaml:"renders_per_sec"`
}

// LoadTester runs a LoadTestConfig against a renderer.
type LoadTester struct {
	config   LoadTestConfig
	renderer services.AlertPanelRenderer
	logger   logger.Logger
}

func NewLoadTester(config LoadTestConfig, renderer services.AlertPanelRenderer, log logger.Logger) (*LoadTester, error) {
	if renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if len(config.Batches) == 0 {
		return nil, fmt.Errorf("at least one batch is required")
	}
	for _, b := range config.Batches {
		if b.Weight < 0 {
			return nil, fmt.Errorf("batch %q has a negative weight", b.Name)
		}
	}
	if config.ConcurrentWorkers < 1 {
		config.ConcurrentWorkers = 1
	}
	if config.Duration <= 0 && config.MaxRenders <= 0 {
		return nil, fmt.Errorf("either a duration or a render limit is required")
	}
	return &LoadTester{config: config, renderer: renderer, logger: logger.OrNop(log)}, nil
}

type sample struct {
	took time.Duration
	rows int
}

// RunLoadTest executes the load test
func (lt *LoadTester) RunLoadTest(ctx context.Context) (*LoadTestResult, error) {
	lt.logger.Info("Starting load test", "duration", lt.config.Duration, "workers", lt.config.ConcurrentWorkers, "max_renders", lt.config.MaxRenders)

	testCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if lt.config.Duration > 0 {
		testCtx, cancel = context.WithTimeout(testCtx, lt.config.Duration)
		defer cancel()
	}

	var (
		issued  atomic.Int64
		mu      sync.Mutex
		samples []sample
		wg      sync.WaitGroup
	)

	start := time.Now()
	for i := 0; i < lt.config.ConcurrentWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			local := make([]sample, 0, 256)
			defer func() {
				mu.Lock()
				samples = append(samples, local...)
				mu.Unlock()
			}()

			for testCtx.Err() == nil {
				if lt.config.MaxRenders > 0 && issued.Add(1) > lt.config.MaxRenders {
					return
				}
				batch := lt.pickBatch(rng)
				t0 := time.Now()
				res := lt.renderer.Render(testCtx, batch.Frames, batch.Options)
				local = append(local, sample{took: time.Since(t0), rows: len(res.Rows)})
			}
		}(start.UnixNano() + int64(i))
	}
	wg.Wait()

	result := summarize(samples, time.Since(start))
	lt.logger.Info("Load test completed",
		"renders", result.TotalRenders,
		"avg_render_time", result.AvgRenderTime,
		"p99_render_time", result.P99RenderTime,
		"renders_per_sec", result.RendersPerSec,
	)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// pickBatch selects a batch based on weights; all-zero weights pick uniformly.
func (lt *LoadTester) pickBatch(rng *rand.Rand) Batch {
	total := 0
	for _, b := range lt.config.Batches {
		total += b.Weight
	}
	if total == 0 {
		return lt.config.Batches[rng.Intn(len(lt.config.Batches))]
	}

	r := rng.Intn(total)
	for _, b := range lt.config.Batches {
		if r < b.Weight {
			return b
		}
		r -= b.Weight
	}
	return lt.config.Batches[0]
}

func summarize(samples []sample, elapsed time.Duration) *LoadTestResult {
	res := &LoadTestResult{TotalDuration: elapsed, TotalRenders: int64(len(samples))}
	if len(samples) == 0 {
		return res
	}

	times := make([]time.Duration, len(samples))
	var sum time.Duration
	for i, s := range samples {
		times[i] = s.took
		sum += s.took
		res.RowsRendered += int64(s.rows)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	res.AvgRenderTime = sum / time.Duration(len(times))
	res.P95RenderTime = percentile(times, 95)
	res.P99RenderTime = percentile(times, 99)
	if elapsed > 0 {
		res.RendersPerSec = float64(len(samples)) / elapsed.Seconds()
	}
	return res
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p/100.0)]
}
