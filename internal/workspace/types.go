// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// workspace types/constants

package workspace

const (
	ReportFileName = "run-report.json"
	LogFileName    = "foldx.log"
)

// Workspace is the simulation folder: one subdirectory per peptide
type Workspace struct {
	Root string
}

// Artifacts are the template files copied into every peptide directory
type Artifacts struct {
	Structure string // path to the structure (PDB) file
	Rotabase  string // path to the FoldX rotabase file
}

// Prepared describes a peptide directory ready for FoldX.
// File names are relative to Dir.
type Prepared struct {
	Peptide     string
	Dir         string
	Structure   string
	Instruction string
}
