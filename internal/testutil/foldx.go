// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Fake FoldX and fixtures shared by tests

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// Environment variables understood by the fake FoldX
const (
	EnvFail  = "FAKE_FOLDX_FAIL"  // peptide directory name that exits 3
	EnvSleep = "FAKE_FOLDX_SLEEP" // seconds to sleep before writing the model
)

// fakeFoldX behaves like BuildModel as far as the runner can tell: it
// records its arguments, fails on request and copies the input structure
// to <stem>_1.pdb.
const fakeFoldX = `#!/bin/sh
for arg in "$@"; do
  case "$arg" in
    --pdb=*) pdb="${arg#--pdb=}" ;;
    --mutant-file=*) mutant="${arg#--mutant-file=}" ;;
  esac
done
echo "$@" > args.txt
echo "FoldX fake: building $pdb with $mutant"
sleep "${FAKE_FOLDX_SLEEP:-0}"
if [ -n "$FAKE_FOLDX_FAIL" ] && [ "$(basename "$(pwd)")" = "$FAKE_FOLDX_FAIL" ]; then
  echo "Specified residue not found" >&2
  exit 3
fi
[ -f "$mutant" ] || { echo "missing $mutant" >&2; exit 2; }
cp "$pdb" "${pdb%.pdb}_1.pdb"
`

// FakeFoldX writes the fake FoldX script into a temp dir and returns its path.
// Tests are skipped on Windows.
func FakeFoldX(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake foldx is a shell script")
	}

	path := filepath.Join(t.TempDir(), "foldx")
	if err := os.WriteFile(path, []byte(fakeFoldX), 0755); err != nil {
		t.Fatalf("failed to write fake foldx: %v", err)
	}
	return path
}

// AtomLine formats a minimal fixed-column PDB ATOM record
func AtomLine(serial int, atom, residue, chain string, number int) string {
	return fmt.Sprintf("ATOM  %5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f  1.00  0.00",
		serial, atom, residue, chain, number, 1.0, 2.0, 3.0)
}

// threeLetter maps one-letter codes back to residue names for fixtures
var threeLetter = map[rune]string{
	'A': "ALA", 'R': "ARG", 'N': "ASN", 'D': "ASP", 'C': "CYS",
	'E': "GLU", 'Q': "GLN", 'G': "GLY", 'H': "HIS", 'I': "ILE",
	'L': "LEU", 'K': "LYS", 'M': "MET", 'F': "PHE", 'P': "PRO",
	'S': "SER", 'T': "THR", 'W': "TRP", 'Y': "TYR", 'V': "VAL",
}

// PDB returns a structure with one CA atom per residue of sequence on
// chain, numbered from 1
func PDB(chain, sequence string) string {
	var sb strings.Builder
	sb.WriteString("HEADER    TEST STRUCTURE\n")
	for i, r := range sequence {
		sb.WriteString(AtomLine(i+1, "CA", threeLetter[r], chain, i+1))
		sb.WriteString("\n")
	}
	sb.WriteString("END\n")
	return sb.String()
}

// WriteFile writes content to dir/name and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
