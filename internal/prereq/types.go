// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Prerequisite types

package prereq

// FoldXInstallGuide is shown when the FoldX executable cannot be found
const FoldXInstallGuide = `Install FoldX:
  Download:  https://foldxsuite.crg.eu/ (free academic licence)
  Unpack the archive and either add the directory to PATH
  or pass the binary with --foldx /path/to/foldx.
  FoldX needs rotabase.txt next to each structure; point --rotabase at it.`

// CheckResult contains the result of checking one prerequisite
type CheckResult struct {
	Name  string
	Path  string
	Found bool
	Error string
}

// CheckSummary contains the results of all checks
type CheckSummary struct {
	AllFound     bool
	Results      []CheckResult
	MissingTools []string
}

// NewCheckSummary creates an empty summary
func NewCheckSummary() *CheckSummary {
	return &CheckSummary{AllFound: true}
}

// AddResult adds a check result to the summary
func (s *CheckSummary) AddResult(result CheckResult) {
	s.Results = append(s.Results, result)
	if !result.Found {
		s.AllFound = false
		s.MissingTools = append(s.MissingTools, result.Name)
	}
}
