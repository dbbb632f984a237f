package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"cover-matte/internal/imageio"

	"go.uber.org/zap"
)

// Config holds the shared settings of a batch run.
type Config struct {
	Workers  int
	Logger   *zap.Logger
	Interval time.Duration // progress report period, 2s when zero
}

// Result holds the outcome of processing one task.
type Result struct {
	Task       string `json:"task"`
	Input      string `json:"input"`
	Output     string `json:"output,omitempty"`
	Format     string `json:"format,omitempty"`
	Bytes      int64  `json:"bytes,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Background string `json:"background,omitempty"`
	Regions    int    `json:"regions_processed"`
	OverLimit  bool   `json:"over_limit,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// Job processes one task. Tasks are independent and share no state.
type Job func(task string) Result

// Run processes all tasks using a worker pool. Results keep task order.
func Run(cfg Config, tasks []string, job Job) []Result {
	total := len(tasks)
	results := make([]Result, total)
	var processed atomic.Int64

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					log.Info("progress",
						zap.Int64("done", p),
						zap.Int("total", total),
						zap.Float64("per_sec", float64(p)/elapsed))
				}
			}
		}
	}()

	// Worker pool
	taskChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range taskChan {
				r := job(tasks[idx])
				if r.Task == "" {
					r.Task = tasks[idx]
				}
				results[idx] = r
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range tasks {
		taskChan <- i
	}
	close(taskChan)

	wg.Wait()
	close(done)

	return results
}

// Failed returns the results that did not succeed.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}

// CollectInputs lists decodable images directly inside dir, sorted by name.
func CollectInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read dir %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageio.IsSupported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
