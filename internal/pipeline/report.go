// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Per-peptide results and the run report

package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Stage is the last pipeline stage a peptide reached
type Stage string

const (
	StageValidate Stage = "validate"
	StagePrepare  Stage = "prepare"
	StageModel    Stage = "model"
	StageRename   Stage = "rename"
	StageDone     Stage = "done"
)

// PeptideResult is the outcome of one peptide. When Success is false,
// Stage names the stage that failed.
type PeptideResult struct {
	Peptide     string   `json:"peptide"`
	Stage       Stage    `json:"stage"`
	Success     bool     `json:"success"`
	Skipped     bool     `json:"skipped,omitempty"`
	Instruction string   `json:"instruction,omitempty"`
	ExitCode    int      `json:"exit_code,omitempty"`
	DurationMS  int64    `json:"duration_ms,omitempty"`
	Model       string   `json:"model,omitempty"`
	Error       string   `json:"error,omitempty"`
	Stderr      []string `json:"stderr,omitempty"`
}

func (r *PeptideResult) fail(stage Stage, err error) {
	r.Stage = stage
	r.Success = false
	r.Error = err.Error()
}

// Report aggregates a whole run
type Report struct {
	RunID          string           `json:"run_id"`
	StartedAt      time.Time        `json:"started_at"`
	FinishedAt     time.Time        `json:"finished_at"`
	SimulationDir  string           `json:"simulation_dir"`
	TemplateSource string           `json:"template_source"`
	Structure      string           `json:"structure"`
	Sites          int              `json:"sites"`
	Workers        int              `json:"workers"`
	DryRun         bool             `json:"dry_run"`
	Total          int              `json:"total"`
	Succeeded      int              `json:"succeeded"`
	Failed         int              `json:"failed"`
	Skipped        int              `json:"skipped"`
	Peptides       []*PeptideResult `json:"peptides"`
}

// NewReport creates a report with a fresh run ID
func NewReport() *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Peptides:  make([]*PeptideResult, 0),
	}
}

// Add registers a peptide and returns its result for later stages to fill
func (r *Report) Add(peptide string) *PeptideResult {
	result := &PeptideResult{Peptide: peptide, Stage: StageValidate, Success: true}
	r.Peptides = append(r.Peptides, result)
	return result
}

// Lookup returns the result of a peptide, or nil
func (r *Report) Lookup(peptide string) *PeptideResult {
	for _, result := range r.Peptides {
		if result.Peptide == peptide {
			return result
		}
	}
	return nil
}

// Finish stamps the end time and recomputes the counters
func (r *Report) Finish() {
	r.FinishedAt = time.Now()
	r.Total = len(r.Peptides)
	r.Succeeded, r.Failed, r.Skipped = 0, 0, 0

	for _, result := range r.Peptides {
		switch {
		case !result.Success:
			r.Failed++
		case result.Skipped:
			r.Skipped++
		default:
			r.Succeeded++
		}
	}
}

// Success reports whether no peptide failed
func (r *Report) Success() bool {
	for _, result := range r.Peptides {
		if !result.Success {
			return false
		}
	}
	return true
}

// Failures returns the failed peptides in input order
func (r *Report) Failures() []*PeptideResult {
	var failed []*PeptideResult
	for _, result := range r.Peptides {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	return failed
}

// Write saves the report as indented JSON
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a report written by Write
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return &report, nil
}

// FormatSummary returns a human-readable run summary
func FormatSummary(r *Report) string {
	var sb strings.Builder

	sb.WriteString("\n─────────────────────────────────────\n")
	sb.WriteString("Run Summary\n")
	sb.WriteString("─────────────────────────────────────\n")

	switch {
	case r.Total == 0:
		sb.WriteString("⊘ No peptides to model\n")
	case r.Success() && r.DryRun:
		sb.WriteString(color.YellowString("⊘") + " Dry-run: workspaces prepared, FoldX not started\n")
	case r.Success():
		sb.WriteString(color.GreenString("✓") + " All peptides modelled successfully\n")
	default:
		sb.WriteString(color.RedString("✗") + " Some peptides failed\n")
	}

	sb.WriteString(fmt.Sprintf("\nRun ID:     %s\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Peptides:   %d\n", r.Total))
	sb.WriteString(fmt.Sprintf("  Modelled: %d\n", r.Succeeded))
	sb.WriteString(fmt.Sprintf("  Failed:   %d\n", r.Failed))
	sb.WriteString(fmt.Sprintf("  Skipped:  %d\n", r.Skipped))
	if !r.FinishedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("\nTotal time: %v\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond)))
	}

	for _, result := range r.Failures() {
		sb.WriteString(fmt.Sprintf("\n%s %s [%s]: %s\n", color.RedString("✗"), result.Peptide, result.Stage, result.Error))
		for _, line := range result.Stderr {
			sb.WriteString("    " + line + "\n")
		}
	}

	return sb.String()
}
