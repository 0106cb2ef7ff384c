// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Peptide list loading

package peptide

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads the peptide list at path.
// The first whitespace-delimited field of each line is the peptide; the
// rest of the line is ignored. Duplicates are dropped and the remaining
// peptides keep the order of their first occurrence.
func Load(path string) ([]Peptide, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open peptide list: %w", err)
	}
	defer file.Close()

	peptides, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read peptide list %s: %w", path, err)
	}

	return peptides, nil
}

// Read parses a peptide list from r (see Load)
func Read(r io.Reader) ([]Peptide, error) {
	seen := make(map[Peptide]bool)
	peptides := make([]Peptide, 0)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// Blank lines carry no peptide
		if len(fields) == 0 {
			continue
		}

		p := Peptide(fields[0])
		if seen[p] {
			continue
		}
		seen[p] = true
		peptides = append(peptides, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return peptides, nil
}
