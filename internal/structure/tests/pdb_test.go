// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Structure index tests

package tests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sony-level/peptide-runner/internal/mutation"
	"github.com/sony-level/peptide-runner/internal/structure"
	"github.com/sony-level/peptide-runner/internal/testutil"
)

func TestReadIndexesResidues(t *testing.T) {
	idx, err := structure.Read(strings.NewReader(testutil.PDB("L", "LLYGFVNYI")))
	require.NoError(t, err)

	assert.Equal(t, 9, idx.Len())
	assert.Equal(t, []string{"L"}, idx.Chains())

	res, ok := idx.Lookup("L", 3)
	require.True(t, ok)
	assert.Equal(t, "TYR", res.Name)
	assert.Equal(t, byte('Y'), res.Code)

	_, ok = idx.Lookup("L", 10)
	assert.False(t, ok)
	_, ok = idx.Lookup("A", 1)
	assert.False(t, ok)
}

func TestReadFirstAtomOfResidueWins(t *testing.T) {
	pdb := strings.Join([]string{
		testutil.AtomLine(1, "N", "GLY", "A", 5),
		testutil.AtomLine(2, "CA", "GLY", "A", 5),
		testutil.AtomLine(3, "C", "GLY", "A", 5),
		testutil.AtomLine(4, "N", "ALA", "A", 6),
	}, "\n")

	idx, err := structure.Read(strings.NewReader(pdb))
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}

func TestReadStopsAtFirstModel(t *testing.T) {
	pdb := strings.Join([]string{
		"MODEL        1",
		testutil.AtomLine(1, "CA", "LEU", "A", 1),
		"ENDMDL",
		"MODEL        2",
		testutil.AtomLine(2, "CA", "LEU", "A", 2),
		"ENDMDL",
	}, "\n")

	idx, err := structure.Read(strings.NewReader(pdb))
	require.NoError(t, err)

	_, ok := idx.Lookup("A", 2)
	assert.False(t, ok)
	assert.Equal(t, 1, idx.Len())
}

func TestReadIgnoresNonAminoAcids(t *testing.T) {
	pdb := strings.Join([]string{
		testutil.AtomLine(1, "O", "HOH", "W", 1),
		"HETATM    2 ZN    ZN A 900      1.000   2.000   3.000  1.00  0.00",
		testutil.AtomLine(3, "CA", "VAL", "A", 1),
	}, "\n")

	idx, err := structure.Read(strings.NewReader(pdb))
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestReadRejectsTruncatedAtom(t *testing.T) {
	_, err := structure.Read(strings.NewReader("ATOM      1  CA  LEU"))
	assert.Error(t, err)
}

func TestCheckSites(t *testing.T) {
	idx, err := structure.Read(strings.NewReader(testutil.PDB("L", "LLYGFVNYI")))
	require.NoError(t, err)

	tmpl, err := mutation.ParseLegacy(mutation.DefaultLegacyTemplate)
	require.NoError(t, err)
	assert.NoError(t, idx.CheckSites(tmpl.Sites))

	wrong, err := mutation.ParseLegacy("AL1{},LL2{},YL12{};")
	require.NoError(t, err)

	err = idx.CheckSites(wrong.Sites)
	require.ErrorIs(t, err, structure.ErrMismatch)
	assert.Contains(t, err.Error(), "AL1: structure has LEU")
	assert.Contains(t, err.Error(), "no residue at chain L position 12 (chains: L)")
}
