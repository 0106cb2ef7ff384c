// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Execution types

package exec

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultWorkers is the default number of concurrent FoldX processes
const DefaultWorkers = 3

// stderrTailBytes bounds how much stderr is kept in memory per run
const stderrTailBytes = 8 * 1024

// ExecutionMode determines how the runner behaves
type ExecutionMode int

const (
	// ModeDryRun logs what would run without executing
	ModeDryRun ExecutionMode = iota
	// ModeExecute actually runs FoldX
	ModeExecute
)

// RunnerConfig configures the FoldX runner
type RunnerConfig struct {
	Mode       ExecutionMode
	FoldX      string        // FoldX executable (absolute path or name in PATH)
	Timeout    time.Duration // per invocation; 0 waits indefinitely
	Logger     logrus.FieldLogger
	OnStart    func(job *Job)
	OnComplete func(job *Job, result *RunResult)
}

// Job is one BuildModel invocation inside a prepared peptide directory.
// Structure and Instruction are file names relative to Dir.
type Job struct {
	Peptide     string
	Dir         string
	Structure   string
	Instruction string
	LogFile     string // combined stdout/stderr; empty discards output
}

// RunResult contains the result of one FoldX invocation
type RunResult struct {
	Peptide    string
	Success    bool
	Skipped    bool
	SkipReason string
	ExitCode   int
	Duration   time.Duration
	Stderr     string // tail of standard error
	Error      error
}

// ExecutionResult aggregates every invocation of a batch
type ExecutionResult struct {
	Success   bool
	Total     int
	Completed int
	Failed    int
	Skipped   int
	TotalTime time.Duration
	Results   []*RunResult
}

// NewExecutionResult creates an empty execution result
func NewExecutionResult() *ExecutionResult {
	return &ExecutionResult{
		Success: true,
		Results: make([]*RunResult, 0),
	}
}

// AddResult adds a run result to the execution
func (r *ExecutionResult) AddResult(result *RunResult) {
	r.Results = append(r.Results, result)
	r.Total++

	if result.Skipped {
		r.Skipped++
	} else if result.Success {
		r.Completed++
	} else {
		r.Failed++
		r.Success = false
	}
}

// Lookup returns the result of a peptide, or nil
func (r *ExecutionResult) Lookup(peptide string) *RunResult {
	for _, result := range r.Results {
		if result.Peptide == peptide {
			return result
		}
	}
	return nil
}
