// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Load → prepare → model → rename, one independent unit per peptide

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/sony-level/peptide-runner/internal/config"
	"github.com/sony-level/peptide-runner/internal/exec"
	"github.com/sony-level/peptide-runner/internal/fetcher"
	"github.com/sony-level/peptide-runner/internal/mutation"
	"github.com/sony-level/peptide-runner/internal/output"
	"github.com/sony-level/peptide-runner/internal/peptide"
	"github.com/sony-level/peptide-runner/internal/prereq"
	"github.com/sony-level/peptide-runner/internal/structure"
	"github.com/sony-level/peptide-runner/internal/workspace"
)

// stderrLines is how many stderr lines of a failed FoldX run are reported
const stderrLines = 10

// totalStages is the number of progress stages printed by Run
const totalStages = 5

// Pipeline runs batches of FoldX BuildModel jobs
type Pipeline struct {
	cfg      *config.Config
	log      logrus.FieldLogger
	progress io.Writer
	checker  *prereq.Checker
}

// Setup holds everything resolved before the first peptide is touched
type Setup struct {
	Workspace *workspace.Workspace
	Template  *mutation.Template
	Artifacts workspace.Artifacts
	Bundle    *fetcher.FetchResult
	Peptides  []peptide.Peptide
}

// New creates a pipeline. progress receives the "[n/N] Stage" lines and
// may be nil.
func New(cfg *config.Config, log logrus.FieldLogger, progress io.Writer) *Pipeline {
	if progress == nil {
		progress = io.Discard
	}
	return &Pipeline{
		cfg:      cfg,
		log:      log,
		progress: progress,
		checker:  prereq.NewChecker(),
	}
}

func (p *Pipeline) stage(n int, name string) {
	fmt.Fprintf(p.progress, "\n[%d/%d] %s\n", n, totalStages, name)
}

// Load resolves the configuration into a Setup: it reads the peptide list,
// opens the simulation folder, fetches the template bundle, loads the
// mutation template and checks the artifacts. Any error here is fatal for
// the run and happens before a peptide directory is written.
func (p *Pipeline) Load(ctx context.Context) (*Setup, error) {
	return p.load(ctx, false)
}

// load is Load; with fromWorkspace set, a missing peptide list falls back
// to the peptide directories already in the simulation folder.
func (p *Pipeline) load(ctx context.Context, fromWorkspace bool) (*Setup, error) {
	peptides, err := peptide.Load(p.cfg.Input)
	listMissing := fromWorkspace && errors.Is(err, fs.ErrNotExist)
	if err != nil && !listMissing {
		return nil, err
	}

	ws, err := workspace.Open(p.cfg.SimulationDir)
	if err != nil {
		return nil, err
	}

	if listMissing {
		p.log.WithField("input", p.cfg.Input).Warn("Peptide list missing, using the simulation folder")
		names, err := ws.Peptides()
		if err != nil {
			return nil, err
		}
		peptides = make([]peptide.Peptide, len(names))
		for i, name := range names {
			peptides[i] = peptide.Peptide(name)
		}
	}
	p.log.WithField("count", len(peptides)).Info("Loaded peptides")

	bundle, err := fetcher.Fetch(&fetcher.FetchConfig{
		Source:       p.cfg.Templates,
		CacheDir:     filepath.Join(ws.Root, fetcher.CacheSubdir),
		Progress:     p.progress,
		ShallowClone: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve template bundle: %w", err)
	}

	tmpl, err := p.loadTemplate(bundle.Dir)
	if err != nil {
		return nil, err
	}

	structureName := p.cfg.Structure
	if tmpl.Structure != "" {
		structureName = tmpl.Structure
	}
	artifacts := workspace.Artifacts{
		Structure: resolve(bundle.Dir, structureName),
		Rotabase:  resolve(bundle.Dir, p.cfg.Rotabase),
	}
	if err := artifacts.Check(); err != nil {
		return nil, err
	}

	if !p.cfg.SkipStructureCheck {
		idx, err := structure.ReadFile(artifacts.Structure)
		if err != nil {
			return nil, err
		}
		if err := idx.CheckSites(tmpl.Sites); err != nil {
			return nil, fmt.Errorf("template does not fit %s: %w", filepath.Base(artifacts.Structure), err)
		}
	}

	p.log.WithFields(logrus.Fields{
		"bundle":    bundle.Dir,
		"structure": artifacts.Structure,
		"sites":     tmpl.Arity(),
	}).Debug("Template resolved")

	return &Setup{
		Workspace: ws,
		Template:  tmpl,
		Artifacts: artifacts,
		Bundle:    bundle,
		Peptides:  peptides,
	}, nil
}

// loadTemplate picks, in order: the configured template file, a
// mutations.yaml shipped with the bundle, the legacy format string
func (p *Pipeline) loadTemplate(bundleDir string) (*mutation.Template, error) {
	if p.cfg.TemplateFile != "" {
		return mutation.LoadFile(resolve(bundleDir, p.cfg.TemplateFile))
	}

	bundled := filepath.Join(bundleDir, mutation.DefaultFileName)
	if _, err := os.Stat(bundled); err == nil {
		return mutation.LoadFile(bundled)
	}

	tmpl, err := mutation.ParseLegacy(p.cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("invalid template %q: %w", p.cfg.Template, err)
	}
	return tmpl, nil
}

// newReport starts a report describing setup
func (p *Pipeline) newReport(setup *Setup) *Report {
	report := NewReport()
	report.SimulationDir = setup.Workspace.Root
	report.TemplateSource = setup.Bundle.Source
	report.Structure = filepath.Base(setup.Artifacts.Structure)
	report.Sites = setup.Template.Arity()
	report.Workers = p.cfg.Workers
	report.DryRun = p.cfg.DryRun
	return report
}

// prepare validates and builds the directory of every peptide. Peptides
// that fail are recorded and left out of the returned jobs.
func (p *Pipeline) prepare(setup *Setup, report *Report) []*exec.Job {
	jobs := make([]*exec.Job, 0, len(setup.Peptides))

	for _, pep := range setup.Peptides {
		result := report.Add(pep.String())
		log := p.log.WithField("peptide", pep.String())

		if err := peptide.Validate(pep, setup.Template.Arity(), p.cfg.StrictAlphabet); err != nil {
			log.WithError(err).Warn("Peptide rejected")
			result.fail(StageValidate, err)
			continue
		}

		line, err := setup.Template.Render(pep.String())
		if err != nil {
			log.WithError(err).Warn("Peptide rejected")
			result.fail(StageValidate, err)
			continue
		}
		result.Instruction = line

		prepared, err := setup.Workspace.Prepare(pep.String(), setup.Artifacts, p.cfg.InstructionFile, line)
		if err != nil {
			log.WithError(err).Error("Failed to prepare peptide directory")
			result.fail(StagePrepare, err)
			continue
		}
		result.Stage = StagePrepare

		jobs = append(jobs, &exec.Job{
			Peptide:     prepared.Peptide,
			Dir:         prepared.Dir,
			Structure:   prepared.Structure,
			Instruction: prepared.Instruction,
			LogFile:     setup.Workspace.LogFile(prepared.Peptide),
		})
	}

	return jobs
}

// Prepare validates the peptides and builds their directories without
// starting FoldX. The report is written to the simulation folder.
func (p *Pipeline) Prepare(ctx context.Context) (*Report, error) {
	p.stage(1, "Load peptides and template")
	setup, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}

	report := p.newReport(setup)
	report.DryRun = true

	p.stage(2, "Prepare workspaces")
	jobs := p.prepare(setup, report)
	fmt.Fprintf(p.progress, "  → %d of %d peptides ready in %s\n", len(jobs), len(setup.Peptides), setup.Workspace.Root)

	for _, result := range report.Peptides {
		if result.Success {
			result.Skipped = true
		}
	}

	return p.finish(setup, report)
}

// Run executes the whole batch and returns the report. The error is only
// set for failures that stop the batch as a whole; per-peptide failures
// are in the report.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	p.stage(1, "Load peptides and template")
	setup, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(p.progress, "  → %d peptides, %d sites, structure %s\n",
		len(setup.Peptides), setup.Template.Arity(), filepath.Base(setup.Artifacts.Structure))

	if !p.cfg.DryRun {
		summary := p.checker.CheckFoldX(p.cfg.FoldX, setup.Artifacts.Structure, setup.Artifacts.Rotabase)
		if !summary.AllFound {
			return nil, fmt.Errorf("prerequisites missing:\n%s", prereq.FormatMissing(summary))
		}
	}

	report := p.newReport(setup)

	p.stage(2, "Prepare workspaces")
	jobs := p.prepare(setup, report)
	fmt.Fprintf(p.progress, "  → %d of %d peptides ready\n", len(jobs), len(setup.Peptides))

	p.stage(3, "Model (FoldX)")
	runner := exec.NewRunner(&exec.RunnerConfig{
		Mode:    p.mode(),
		FoldX:   p.cfg.FoldX,
		Timeout: p.cfg.Timeout,
		Logger:  p.log,
		OnComplete: func(job *exec.Job, result *exec.RunResult) {
			fmt.Fprintf(p.progress, "  %s\n", exec.FormatRunResult(result))
		},
	})
	execResult := exec.NewDispatcher(runner, p.cfg.Workers).Dispatch(ctx, jobs)
	p.recordModels(report, execResult)

	p.stage(4, "Rename models")
	if p.cfg.DryRun {
		fmt.Fprintln(p.progress, "  → Skipped (dry-run mode)")
	} else {
		p.rename(setup, report, setup.Peptides)
	}

	p.stage(5, "Report")
	return p.finish(setup, report)
}

// recordModels copies FoldX outcomes into the report
func (p *Pipeline) recordModels(report *Report, execResult *exec.ExecutionResult) {
	for _, run := range execResult.Results {
		result := report.Lookup(run.Peptide)
		if result == nil {
			continue
		}

		result.Stage = StageModel
		result.ExitCode = run.ExitCode
		result.DurationMS = run.Duration.Milliseconds()
		result.Skipped = run.Skipped

		if !run.Success {
			err := run.Error
			if err == nil {
				err = errors.New("foldx failed")
			}
			result.fail(StageModel, err)
			result.Stderr = exec.StderrTail(run, stderrLines)
		}
	}
}

// rename copies the model of every peptide that got through modelling.
// A missing model only fails its own peptide.
func (p *Pipeline) rename(setup *Setup, report *Report, peptides []peptide.Peptide) {
	structureName := filepath.Base(setup.Artifacts.Structure)

	for _, pep := range peptides {
		result := report.Lookup(pep.String())
		if result == nil || !result.Success || result.Skipped {
			continue
		}

		if err := workspace.ValidateName(pep.String()); err != nil {
			result.fail(StageRename, err)
			continue
		}

		dir := setup.Workspace.PeptideDir(pep.String())
		model, err := output.Rename(dir, pep.String(), structureName, p.cfg.ModelIndex)
		if err != nil {
			p.log.WithField("peptide", pep.String()).WithError(err).Error("Failed to rename model")
			result.fail(StageRename, err)
			continue
		}

		result.Model = model
		result.Stage = StageDone
	}
}

// RenameAll renames existing FoldX models for every loaded peptide without
// running FoldX, e.g. after models were built on another machine. Without a
// peptide list every peptide directory of the simulation folder is renamed.
func (p *Pipeline) RenameAll(ctx context.Context) (*Report, error) {
	p.stage(1, "Load peptides and template")
	setup, err := p.load(ctx, true)
	if err != nil {
		return nil, err
	}

	report := p.newReport(setup)
	for _, pep := range setup.Peptides {
		result := report.Add(pep.String())
		result.Stage = StageModel
	}

	p.stage(4, "Rename models")
	p.rename(setup, report, setup.Peptides)

	return p.finish(setup, report)
}

func (p *Pipeline) finish(setup *Setup, report *Report) (*Report, error) {
	report.Finish()
	if err := report.Write(setup.Workspace.ReportFile()); err != nil {
		return report, err
	}
	p.log.WithFields(logrus.Fields{
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
		"skipped":   report.Skipped,
		"report":    setup.Workspace.ReportFile(),
	}).Info("Run finished")
	return report, nil
}

func (p *Pipeline) mode() exec.ExecutionMode {
	if p.cfg.DryRun {
		return exec.ModeDryRun
	}
	return exec.ModeExecute
}

// resolve joins name onto dir unless it is already absolute
func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
