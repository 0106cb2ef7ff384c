// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Prerequisite checker for FoldX and its support files

package prereq

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Checker verifies that a run has what FoldX needs
type Checker struct {
	lookPath func(string) (string, error)
}

// NewChecker creates a new prerequisite checker
func NewChecker() *Checker {
	return &Checker{lookPath: exec.LookPath}
}

// CheckExecutable checks that name resolves to an executable file, either as
// a path or through PATH
func (c *Checker) CheckExecutable(name string) CheckResult {
	result := CheckResult{Name: name}

	path, err := c.lookPath(name)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	result.Found = true
	result.Path = path
	return result
}

// CheckFile checks that path exists and is a regular file
func (c *Checker) CheckFile(label, path string) CheckResult {
	result := CheckResult{Name: label, Path: path}

	info, err := os.Stat(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if !info.Mode().IsRegular() {
		result.Error = "not a regular file"
		return result
	}

	result.Found = true
	return result
}

// CheckFoldX checks the FoldX executable and the files every run copies
func (c *Checker) CheckFoldX(foldx, structure, rotabase string) *CheckSummary {
	summary := NewCheckSummary()
	summary.AddResult(c.CheckExecutable(foldx))
	summary.AddResult(c.CheckFile("structure", structure))
	summary.AddResult(c.CheckFile("rotabase", rotabase))
	return summary
}

// FormatMissing returns a formatted string of missing prerequisites
func FormatMissing(summary *CheckSummary) string {
	if summary.AllFound {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Missing prerequisites:\n\n")

	for _, result := range summary.Results {
		if result.Found {
			continue
		}
		sb.WriteString("─────────────────────────────────\n")
		sb.WriteString(result.Name + "\n")
		sb.WriteString("─────────────────────────────────\n")
		if result.Error != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", result.Error))
		}
		if result.Name != "structure" && result.Name != "rotabase" {
			sb.WriteString(FoldXInstallGuide)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
