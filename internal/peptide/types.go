// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Peptide types and validation

package peptide

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrLength is returned when a peptide does not match the template arity
var ErrLength = errors.New("peptide length does not match template")

// ErrAlphabet is returned when a peptide holds a non-standard residue code
var ErrAlphabet = errors.New("peptide contains non-standard residue")

// standardResidues holds the 20 one-letter amino acid codes FoldX accepts
const standardResidues = "ACDEFGHIKLMNPQRSTVWY"

// Peptide is a one-letter amino acid sequence. It doubles as the name
// of the peptide's directory and of its final model file.
type Peptide string

// String returns the sequence
func (p Peptide) String() string {
	return string(p)
}

// Len returns the number of residues, one per character
func (p Peptide) Len() int {
	return utf8.RuneCountInString(string(p))
}

// Validate checks that the peptide has exactly arity residues.
// When strict is set, every residue must also be a standard amino acid.
func Validate(p Peptide, arity int, strict bool) error {
	if p.Len() != arity {
		return fmt.Errorf("%w: %s has %d residues, template has %d sites", ErrLength, p, p.Len(), arity)
	}

	if strict {
		for i, r := range []rune(string(p)) {
			if !strings.ContainsRune(standardResidues, r) {
				return fmt.Errorf("%w: %q at position %d of %s", ErrAlphabet, r, i+1, p)
			}
		}
	}

	return nil
}
