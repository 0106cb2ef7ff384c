// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Prerequisite checker tests

package tests

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sony-level/peptide-runner/internal/prereq"
	"github.com/sony-level/peptide-runner/internal/testutil"
)

func TestCheckFoldXAllFound(t *testing.T) {
	foldx := testutil.FakeFoldX(t)
	dir := t.TempDir()
	structure := testutil.WriteFile(t, dir, "3PWN_Repair.pdb", "END\n")
	rotabase := testutil.WriteFile(t, dir, "rotabase.txt", "x\n")

	summary := prereq.NewChecker().CheckFoldX(foldx, structure, rotabase)

	assert.True(t, summary.AllFound)
	assert.Empty(t, summary.MissingTools)
	require.Len(t, summary.Results, 3)
	assert.Equal(t, foldx, summary.Results[0].Path)
	assert.Empty(t, prereq.FormatMissing(summary))
}

func TestCheckFoldXMissing(t *testing.T) {
	dir := t.TempDir()
	structure := testutil.WriteFile(t, dir, "3PWN_Repair.pdb", "END\n")

	summary := prereq.NewChecker().CheckFoldX(
		filepath.Join(dir, "foldx"),
		structure,
		filepath.Join(dir, "rotabase.txt"),
	)

	assert.False(t, summary.AllFound)
	assert.Equal(t, []string{filepath.Join(dir, "foldx"), "rotabase"}, summary.MissingTools)

	text := prereq.FormatMissing(summary)
	assert.Contains(t, text, "Missing prerequisites")
	assert.Contains(t, text, "Install FoldX")
	assert.Contains(t, text, "rotabase")
}

func TestCheckExecutableNotExecutable(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "foldx", "#!/bin/sh\n")

	result := prereq.NewChecker().CheckExecutable(path)
	assert.False(t, result.Found)
	assert.NotEmpty(t, result.Error)
}

func TestCheckFileDirectory(t *testing.T) {
	result := prereq.NewChecker().CheckFile("rotabase", t.TempDir())
	assert.False(t, result.Found)
	assert.Equal(t, "not a regular file", result.Error)
}
