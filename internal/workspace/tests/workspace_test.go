// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Workspace tests

package workspace_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sony-level/peptide-runner/internal/testutil"
	"github.com/sony-level/peptide-runner/internal/workspace"
)

const line = "LL1A,LL2A,YL3C,GL4D,FL5E,VL6F,NL7G,YL8H,IL9I;"

// artifacts writes a structure and a rotabase file into a fresh directory
func artifacts(t *testing.T) workspace.Artifacts {
	t.Helper()
	dir := t.TempDir()
	return workspace.Artifacts{
		Structure: testutil.WriteFile(t, dir, "3PWN_Repair.pdb", testutil.PDB("L", "LLYGFVNYI")),
		Rotabase:  testutil.WriteFile(t, dir, "rotabase.txt", "ALA  N  CA  CB\nGLY  N  CA  C\n"),
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestOpenCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "foldx_models")

	ws, err := workspace.Open(root)
	require.NoError(t, err)

	assert.True(t, ws.Exists())
	assert.True(t, filepath.IsAbs(ws.Root))
	assert.Equal(t, filepath.Join(ws.Root, workspace.ReportFileName), ws.ReportFile())

	// Opening again is fine
	_, err = workspace.Open(root)
	assert.NoError(t, err)
}

func TestPrepare(t *testing.T) {
	ws, err := workspace.Open(t.TempDir())
	require.NoError(t, err)
	a := artifacts(t)

	prepared, err := ws.Prepare("AACDEFGHI", a, "individual_list.txt", line)
	require.NoError(t, err)

	assert.Equal(t, ws.PeptideDir("AACDEFGHI"), prepared.Dir)
	assert.Equal(t, "3PWN_Repair.pdb", prepared.Structure)
	assert.Equal(t, "individual_list.txt", prepared.Instruction)

	assert.Equal(t, line+"\n", readFile(t, ws.PeptideFile("AACDEFGHI", "individual_list.txt")))
	assert.Equal(t, readFile(t, a.Structure), readFile(t, ws.PeptideFile("AACDEFGHI", "3PWN_Repair.pdb")))
	assert.Equal(t, readFile(t, a.Rotabase), readFile(t, ws.PeptideFile("AACDEFGHI", "rotabase.txt")))

	entries, err := os.ReadDir(prepared.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestPrepareIsIdempotent(t *testing.T) {
	ws, err := workspace.Open(t.TempDir())
	require.NoError(t, err)
	a := artifacts(t)

	_, err = ws.Prepare("AACDEFGHI", a, "individual_list.txt", line)
	require.NoError(t, err)
	first := map[string]string{}
	for _, name := range []string{"individual_list.txt", "3PWN_Repair.pdb", "rotabase.txt"} {
		first[name] = readFile(t, ws.PeptideFile("AACDEFGHI", name))
	}

	_, err = ws.Prepare("AACDEFGHI", a, "individual_list.txt", line)
	require.NoError(t, err)
	for name, content := range first {
		assert.Equal(t, content, readFile(t, ws.PeptideFile("AACDEFGHI", name)), name)
	}
}

func TestPrepareOverwritesStaleFiles(t *testing.T) {
	ws, err := workspace.Open(t.TempDir())
	require.NoError(t, err)
	a := artifacts(t)

	dir := ws.PeptideDir("AACDEFGHI")
	require.NoError(t, os.MkdirAll(dir, 0755))
	testutil.WriteFile(t, dir, "individual_list.txt", "a much longer line left over from an earlier template;\n")
	testutil.WriteFile(t, dir, "rotabase.txt", "stale\n")

	_, err = ws.Prepare("AACDEFGHI", a, "individual_list.txt", line)
	require.NoError(t, err)

	assert.Equal(t, line+"\n", readFile(t, filepath.Join(dir, "individual_list.txt")))
	assert.Equal(t, readFile(t, a.Rotabase), readFile(t, filepath.Join(dir, "rotabase.txt")))
}

func TestPrepareRejectsPathNames(t *testing.T) {
	ws, err := workspace.Open(t.TempDir())
	require.NoError(t, err)
	a := artifacts(t)

	for _, name := range []string{"", ".", "..", "../escape", "a/b"} {
		_, err := ws.Prepare(name, a, "individual_list.txt", line)
		assert.Error(t, err, "name %q", name)
	}
}

func TestPrepareMissingArtifact(t *testing.T) {
	ws, err := workspace.Open(t.TempDir())
	require.NoError(t, err)
	a := artifacts(t)
	a.Rotabase = filepath.Join(t.TempDir(), "missing.txt")

	_, err = ws.Prepare("AACDEFGHI", a, "individual_list.txt", line)
	assert.Error(t, err)
}

func TestArtifactsCheck(t *testing.T) {
	a := artifacts(t)
	assert.NoError(t, a.Check())

	missing := a
	missing.Structure = filepath.Join(t.TempDir(), "none.pdb")
	assert.Error(t, missing.Check())

	dir := a
	dir.Rotabase = t.TempDir()
	assert.Error(t, dir.Check())
}

func TestPeptides(t *testing.T) {
	ws, err := workspace.Open(t.TempDir())
	require.NoError(t, err)
	a := artifacts(t)

	for _, p := range []string{"BBCDEFGHK", "AACDEFGHI"} {
		_, err := ws.Prepare(p, a, "individual_list.txt", line)
		require.NoError(t, err)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(ws.Root, ".templates"), 0755))
	testutil.WriteFile(t, ws.Root, workspace.ReportFileName, "{}")

	peptides, err := ws.Peptides()
	require.NoError(t, err)
	assert.Equal(t, []string{"AACDEFGHI", "BBCDEFGHK"}, peptides)
}

func TestCleanup(t *testing.T) {
	ws, err := workspace.Open(filepath.Join(t.TempDir(), "foldx_models"))
	require.NoError(t, err)
	_, err = ws.Prepare("AACDEFGHI", artifacts(t), "individual_list.txt", line)
	require.NoError(t, err)

	require.NoError(t, ws.Cleanup())
	assert.False(t, ws.Exists())

	// Cleaning a missing workspace is not an error
	assert.NoError(t, ws.Cleanup())
}

func TestCleanupStale(t *testing.T) {
	ws, err := workspace.Open(t.TempDir())
	require.NoError(t, err)
	a := artifacts(t)

	for _, p := range []string{"AACDEFGHI", "BBCDEFGHK"} {
		_, err := ws.Prepare(p, a, "individual_list.txt", line)
		require.NoError(t, err)
	}

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(ws.PeptideDir("AACDEFGHI"), old, old))

	cleaned, err := ws.CleanupStale(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, cleaned)
	assert.NoDirExists(t, ws.PeptideDir("AACDEFGHI"))
	assert.DirExists(t, ws.PeptideDir("BBCDEFGHK"))
}

func TestCleanupStaleKeepsTemplateCache(t *testing.T) {
	ws, err := workspace.Open(t.TempDir())
	require.NoError(t, err)

	cache := filepath.Join(ws.Root, ".templates", "github-user-repo")
	require.NoError(t, os.MkdirAll(cache, 0755))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(ws.Root, ".templates"), old, old))

	cleaned, err := ws.CleanupStale(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, cleaned)
	assert.DirExists(t, cache)
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, workspace.ValidateName("AACDEFGHI"))
	for _, name := range []string{"", ".", "..", "../escape", "a/b", `a\b`} {
		assert.Error(t, workspace.ValidateName(name), "name %q", name)
	}
}

func TestCleanupStaleMissingRoot(t *testing.T) {
	ws := &workspace.Workspace{Root: filepath.Join(t.TempDir(), "none")}

	cleaned, err := ws.CleanupStale(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, cleaned)
}
