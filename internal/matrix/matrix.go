// Package matrix builds and writes the per-scramble distance matrices
// (C7): a worker pool sized cpu_count-1 dispatches every ordered pair
// of a scramble entry's coordinates, grounded on the worker-pool
// dispatch pattern used throughout the teacher codebase's concurrent
// routing components, adapted here to drive routingservice.Service
// instead of an in-process road graph.
package matrix

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/foesi/such-route/internal/codec"
	"github.com/foesi/such-route/internal/errors"
	"github.com/foesi/such-route/internal/geo"
	"github.com/foesi/such-route/internal/routingservice"
)

// pairJob is one (src, dst) query dispatched to a worker.
type pairJob struct {
	src, dst geo.Coordinate
}

// pairResult is a completed query, fed back to the single writer
// goroutine that assembles the final matrix.
type pairResult struct {
	job  pairJob
	cost geo.Cost
	err  error
}

// Builder drives the worker pool over one scramble entry at a time.
// Per spec.md §5, Save on the underlying cache is called only by the
// caller of Build, never by a worker goroutine.
type Builder struct {
	service    *routingservice.Service
	workers    int
	resultsDir string
	logger     *slog.Logger
}

// New constructs a Builder. workers <= 0 defaults to
// runtime.NumCPU()-1 (minimum 1), matching spec.md §5's
// "cpu_count - 1" sizing.
func New(service *routingservice.Service, workers int, resultsDir string, logger *slog.Logger) *Builder {
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
	}

	return &Builder{service: service, workers: workers, resultsDir: resultsDir, logger: logger}
}

// Build computes the full matrix over coords (with sink's row forced
// Unreachable) using the worker pool, and writes the result to
// results/distance_matrix[-R1,R2,...].json.
func (b *Builder) Build(ctx context.Context, coords []geo.Coordinate, sink geo.Coordinate, nogoCodes []string) (codec.Matrix, error) {
	jobs := make(chan pairJob)
	results := make(chan pairResult)

	var wg sync.WaitGroup
	wg.Add(b.workers)

	for range b.workers {
		go func() {
			defer wg.Done()

			for job := range jobs {
				if job.src == sink {
					results <- pairResult{job: job, cost: geo.Unreachable}

					continue
				}

				result, err := b.service.Query(ctx, job.src, job.dst)
				if err != nil {
					results <- pairResult{job: job, err: err}

					continue
				}

				results <- pairResult{job: job, cost: result.Cost}
			}
		}()
	}

	go func() {
		for _, src := range coords {
			for _, dst := range coords {
				if src == dst {
					continue
				}

				jobs <- pairJob{src: src, dst: dst}
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	costs := make(map[geo.Coordinate]map[geo.Coordinate]geo.Cost, len(coords))
	var firstErr error

	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}

			continue
		}

		if costs[res.job.src] == nil {
			costs[res.job.src] = make(map[geo.Coordinate]geo.Cost)
		}

		costs[res.job.src][res.job.dst] = res.cost
	}

	if firstErr != nil {
		return nil, errors.Wrap(firstErr, "build matrix")
	}

	m := codec.NewMatrix(coords, func(src, dst geo.Coordinate) geo.Cost {
		return costs[src][dst]
	})

	if err := b.write(m, nogoCodes); err != nil {
		return nil, err
	}

	return m, nil
}

func (b *Builder) write(m codec.Matrix, nogoCodes []string) error {
	if err := os.MkdirAll(b.resultsDir, 0o755); err != nil {
		return errors.Wrapf(err, "create results directory %s", b.resultsDir)
	}

	data, err := codec.Marshal(m)
	if err != nil {
		return err
	}

	filename := "distance_matrix.json"
	if len(nogoCodes) > 0 {
		sorted := append([]string(nil), nogoCodes...)
		sort.Strings(sorted)
		filename = fmt.Sprintf("distance_matrix-%s.json", strings.Join(sorted, ","))
	}

	path := filepath.Join(b.resultsDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write matrix file %s", path)
	}

	b.logger.Info("wrote distance matrix", "path", path, "nogos", nogoCodes)

	return nil
}
