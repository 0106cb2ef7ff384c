// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Bounded parallel dispatch of FoldX jobs

package exec

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Dispatcher runs jobs through a Runner with at most Workers in flight
type Dispatcher struct {
	runner  *Runner
	workers int
}

// NewDispatcher creates a dispatcher. workers below 1 fall back to DefaultWorkers.
func NewDispatcher(runner *Runner, workers int) *Dispatcher {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Dispatcher{runner: runner, workers: workers}
}

// Workers returns the concurrency limit
func (d *Dispatcher) Workers() int {
	return d.workers
}

// Dispatch starts jobs in order and returns once every job has finished,
// successfully or not. Results are listed in job order whatever the
// completion order. Failing jobs do not stop the others; a cancelled
// context stops jobs that have not started yet.
func (d *Dispatcher) Dispatch(ctx context.Context, jobs []*Job) *ExecutionResult {
	startTime := time.Now()
	results := make([]*RunResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(d.workers)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = d.runner.Run(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	execResult := NewExecutionResult()
	for _, result := range results {
		execResult.AddResult(result)
	}
	execResult.TotalTime = time.Since(startTime)
	return execResult
}
