// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// FoldX invocation with captured exit status and stderr

package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// waitDelay is how long an interrupted FoldX may take to exit before its
// pipes are closed
const waitDelay = 10 * time.Second

// Runner executes FoldX BuildModel jobs
type Runner struct {
	config *RunnerConfig
	log    logrus.FieldLogger
}

// NewRunner creates a new FoldX runner
func NewRunner(config *RunnerConfig) *Runner {
	if config == nil {
		config = &RunnerConfig{
			Mode:  ModeDryRun,
			FoldX: "foldx",
		}
	}

	log := config.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &Runner{
		config: config,
		log:    log,
	}
}

// Args returns the FoldX arguments of a job
func (j *Job) Args() []string {
	return []string{
		"--command=BuildModel",
		"--pdb=" + j.Structure,
		"--clean-mode=2",
		"--mutant-file=" + j.Instruction,
	}
}

// CommandLine returns the command of a job as a display string
func CommandLine(foldx string, job *Job) string {
	return foldx + " " + strings.Join(job.Args(), " ")
}

// Run executes one job and blocks until FoldX exits.
// A non-zero exit is reported in the result, never swallowed.
func (r *Runner) Run(ctx context.Context, job *Job) *RunResult {
	if r.config.OnStart != nil {
		r.config.OnStart(job)
	}

	startTime := time.Now()
	result := r.run(ctx, job)
	result.Duration = time.Since(startTime)

	if r.config.OnComplete != nil {
		r.config.OnComplete(job, result)
	}
	return result
}

func (r *Runner) run(ctx context.Context, job *Job) *RunResult {
	result := &RunResult{Peptide: job.Peptide}
	log := r.log.WithFields(logrus.Fields{"peptide": job.Peptide, "dir": job.Dir})

	// Dry-run mode: just display what would happen
	if r.config.Mode == ModeDryRun {
		log.WithField("command", CommandLine(r.config.FoldX, job)).Info("Dry-run: FoldX not started")
		result.Success = true
		result.Skipped = true
		result.SkipReason = "dry-run"
		return result
	}

	if err := ctx.Err(); err != nil {
		result.Error = fmt.Errorf("not started: %w", err)
		return result
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.config.FoldX, job.Args()...)
	cmd.Dir = job.Dir
	setPlatformProcessGroup(cmd)
	cmd.Cancel = func() error {
		// Timeouts kill the whole group, user interrupts let FoldX clean up
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return killProcessGroup(cmd)
		}
		return interruptProcessGroup(cmd)
	}
	cmd.WaitDelay = waitDelay

	logOut := io.Discard
	if job.LogFile != "" {
		logFile, err := os.OpenFile(job.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_APPEND, 0644)
		if err != nil {
			result.Error = fmt.Errorf("failed to open log file: %w", err)
			return result
		}
		defer logFile.Close()
		logOut = logFile
	}

	stderrTail := newTailBuffer(stderrTailBytes)
	shared := &lockedWriter{w: logOut}
	cmd.Stdout = shared
	cmd.Stderr = io.MultiWriter(shared, stderrTail)

	log.WithField("command", CommandLine(r.config.FoldX, job)).Debug("Starting FoldX")

	err := cmd.Run()
	result.Stderr = stderrTail.String()

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			result.ExitCode = -1
			result.Error = fmt.Errorf("foldx timed out after %v", r.config.Timeout)
		case errors.Is(ctx.Err(), context.Canceled):
			result.ExitCode = -1
			result.Error = fmt.Errorf("foldx interrupted: %w", ctx.Err())
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
			result.Error = fmt.Errorf("foldx exited with code %d", result.ExitCode)
		default:
			result.ExitCode = -1
			result.Error = fmt.Errorf("failed to run foldx: %w", err)
		}
		log.WithError(result.Error).Warn("FoldX failed")
		return result
	}

	result.Success = true
	log.Debug("FoldX finished")
	return result
}

// lockedWriter serializes writes from the stdout and stderr copiers
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// tailBuffer keeps the last max bytes written to it
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}

// FormatRunResult returns a human-readable run result
func FormatRunResult(result *RunResult) string {
	var sb strings.Builder

	if result.Skipped {
		sb.WriteString(fmt.Sprintf("⊘ %s: Skipped", result.Peptide))
		if result.SkipReason != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", result.SkipReason))
		}
	} else if result.Success {
		sb.WriteString(fmt.Sprintf("✓ %s: Success", result.Peptide))
	} else {
		sb.WriteString(fmt.Sprintf("✗ %s: Failed", result.Peptide))
		if result.Error != nil {
			sb.WriteString(fmt.Sprintf(" - %s", result.Error.Error()))
		}
	}

	sb.WriteString(fmt.Sprintf(" (%v)", result.Duration.Round(time.Millisecond)))
	return sb.String()
}

// StderrTail returns the last n lines of a result's stderr
func StderrTail(result *RunResult, n int) []string {
	trimmed := strings.TrimSpace(result.Stderr)
	if trimmed == "" {
		return nil
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
