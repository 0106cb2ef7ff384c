// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Main workspace logic

package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Open returns the workspace rooted at root, creating the directory if needed.
// Existing content is left alone; re-runs overwrite peptide files in place.
func Open(root string) (*Workspace, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve simulation folder %s: %w", root, err)
	}

	if err := os.MkdirAll(absRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create simulation folder %s: %w", absRoot, err)
	}

	return &Workspace{Root: absRoot}, nil
}

// PeptideDir returns the directory of a peptide
func (w *Workspace) PeptideDir(peptide string) string {
	return filepath.Join(w.Root, peptide)
}

// PeptideFile returns the path of name inside the peptide directory
func (w *Workspace) PeptideFile(peptide, name string) string {
	return filepath.Join(w.Root, peptide, name)
}

// LogFile returns the FoldX log path of a peptide
func (w *Workspace) LogFile(peptide string) string {
	return w.PeptideFile(peptide, LogFileName)
}

// ReportFile returns the path of the run report
func (w *Workspace) ReportFile() string {
	return filepath.Join(w.Root, ReportFileName)
}

// Exists checks if the workspace directory exists
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.Root)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Peptides lists the peptide directories currently in the workspace, sorted
func (w *Workspace) Peptides() ([]string, error) {
	entries, err := os.ReadDir(w.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read simulation folder: %w", err)
	}

	var peptides []string
	for _, entry := range entries {
		if isPeptideDir(entry) {
			peptides = append(peptides, entry.Name())
		}
	}
	sort.Strings(peptides)
	return peptides, nil
}

// Check verifies that both artifacts exist and are regular files
func (a Artifacts) Check() error {
	for label, path := range map[string]string{"structure": a.Structure, "rotabase": a.Rotabase} {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%s file unavailable: %w", label, err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("%s file %s is not a regular file", label, path)
		}
	}
	return nil
}

// Prepare builds the directory of one peptide: it creates the directory if
// absent, copies both artifacts into it and writes line (plus a newline) to
// the instruction file. Existing copies are overwritten, so calling Prepare
// twice yields the same files.
func (w *Workspace) Prepare(peptide string, artifacts Artifacts, instructionName, line string) (*Prepared, error) {
	if err := ValidateName(peptide); err != nil {
		return nil, err
	}

	dir := w.PeptideDir(peptide)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create peptide directory %s: %w", dir, err)
	}

	structureName := filepath.Base(artifacts.Structure)
	for _, src := range []string{artifacts.Structure, artifacts.Rotabase} {
		dst := filepath.Join(dir, filepath.Base(src))
		if _, err := copyFile(src, dst); err != nil {
			return nil, fmt.Errorf("failed to copy %s into %s: %w", filepath.Base(src), peptide, err)
		}
	}

	instructionPath := filepath.Join(dir, instructionName)
	if err := os.WriteFile(instructionPath, []byte(line+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("failed to write instruction file for %s: %w", peptide, err)
	}

	return &Prepared{
		Peptide:     peptide,
		Dir:         dir,
		Structure:   structureName,
		Instruction: instructionName,
	}, nil
}

// isPeptideDir reports whether a simulation folder entry holds a peptide.
// Dot-directories (the template cache) never do.
func isPeptideDir(entry os.DirEntry) bool {
	return entry.IsDir() && !strings.HasPrefix(entry.Name(), ".")
}

// ValidateName rejects peptide identifiers that cannot be used as a
// single directory name below the root
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid peptide name %q for a directory", name)
	}
	return nil
}
