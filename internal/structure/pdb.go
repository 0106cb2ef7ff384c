// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Residue index over the ATOM records of a PDB file

package structure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sony-level/peptide-runner/internal/mutation"
)

// ErrMismatch is returned when template sites disagree with the structure
var ErrMismatch = errors.New("template does not match structure")

var aminoMap = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',

	// FoldX protonation / variant names
	"HIE": 'H', "HID": 'H', "HIP": 'H', "CYX": 'C',
	"MSE": 'M',
}

// Residue is one amino acid residue found in ATOM records
type Residue struct {
	Chain  string
	Number int
	Name   string
	Code   byte
}

// Index maps chain and residue number to residue for the first model
type Index struct {
	residues map[residueKey]Residue
}

type residueKey struct {
	chain  string
	number int
}

// ReadFile indexes the PDB file at path
func ReadFile(path string) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open structure file: %w", err)
	}
	defer file.Close()

	idx, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read structure file %s: %w", path, err)
	}
	return idx, nil
}

// Read indexes PDB records from r. Only ATOM records naming an amino acid
// are kept, and reading stops at the end of the first model.
func Read(r io.Reader) (*Index, error) {
	idx := &Index{residues: make(map[residueKey]Residue)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 6 {
			continue
		}

		switch strings.TrimSpace(line[0:6]) {
		case "ENDMDL":
			return idx, nil
		case "ATOM":
			if err := idx.parseAtom(line); err != nil {
				return nil, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return idx, nil
}

// parseAtom reads the residue name (cols 18-20), chain (col 22) and
// residue number (cols 23-26) of an ATOM record.
func (idx *Index) parseAtom(line string) error {
	if len(line) < 26 {
		return fmt.Errorf("truncated ATOM record: %q", line)
	}

	name := strings.TrimSpace(line[17:20])
	code, ok := aminoMap[name]
	if !ok {
		return nil
	}

	num, err := strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return fmt.Errorf("invalid residue number in ATOM record %q: %w", line, err)
	}

	key := residueKey{chain: line[21:22], number: num}
	if _, exists := idx.residues[key]; exists {
		return nil
	}
	idx.residues[key] = Residue{Chain: key.chain, Number: num, Name: name, Code: code}
	return nil
}

// Len returns the number of indexed residues
func (idx *Index) Len() int {
	return len(idx.residues)
}

// Lookup returns the residue at chain/number
func (idx *Index) Lookup(chain string, number int) (Residue, bool) {
	res, ok := idx.residues[residueKey{chain: chain, number: number}]
	return res, ok
}

// Chains returns the sorted chain identifiers present in the index
func (idx *Index) Chains() []string {
	set := make(map[string]bool)
	for key := range idx.residues {
		set[key.chain] = true
	}

	chains := make([]string, 0, len(set))
	for chain := range set {
		chains = append(chains, chain)
	}
	sort.Strings(chains)
	return chains
}

// CheckSites verifies that every site exists in the structure with the
// expected wild-type residue. All mismatches are reported together.
func (idx *Index) CheckSites(sites []mutation.Site) error {
	var problems []string

	for _, site := range sites {
		res, ok := idx.Lookup(site.Chain, site.Position)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: no residue at chain %s position %d (chains: %s)",
				site, site.Chain, site.Position, strings.Join(idx.Chains(), ",")))
			continue
		}
		if string(res.Code) != site.WildType {
			problems = append(problems, fmt.Sprintf("%s: structure has %s (%c)", site, res.Name, res.Code))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrMismatch, strings.Join(problems, "; "))
	}
	return nil
}
