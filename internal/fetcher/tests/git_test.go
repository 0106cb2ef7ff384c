// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Git template bundle tests against a local origin

package tests

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sony-level/peptide-runner/internal/fetcher"
	"github.com/sony-level/peptide-runner/internal/testutil"
)

const bundleURL = "https://github.com/user/templates"

// origin is a local repository standing in for the remote bundle
type origin struct {
	t    *testing.T
	dir  string
	repo *git.Repository
}

func newOrigin(t *testing.T) *origin {
	t.Helper()
	// go-git serves local clones through git-upload-pack
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &origin{t: t, dir: dir, repo: repo}
}

func (o *origin) commit(name, content string) {
	o.t.Helper()
	testutil.WriteFile(o.t, o.dir, name, content)

	worktree, err := o.repo.Worktree()
	require.NoError(o.t, err)
	_, err = worktree.Add(name)
	require.NoError(o.t, err)
	_, err = worktree.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "pmr", Email: "pmr@example.org", When: time.Now()},
	})
	require.NoError(o.t, err)
}

func fetchBundle(t *testing.T, o *origin, cache string) *fetcher.FetchResult {
	t.Helper()
	result, err := fetcher.Fetch(&fetcher.FetchConfig{
		Source:   bundleURL,
		CacheDir: cache,
		CloneURL: o.dir,
	})
	require.NoError(t, err)
	return result
}

func TestFetchGitClonesIntoCache(t *testing.T) {
	o := newOrigin(t)
	o.commit("3PWN_Repair.pdb", testutil.PDB("L", "LLYGFVNYI"))
	o.commit("rotabase.txt", "ALA  N  CA  CB\n")
	cache := t.TempDir()

	result := fetchBundle(t, o, cache)

	assert.Equal(t, filepath.Join(cache, "github-user-templates"), result.Dir)
	assert.Equal(t, fetcher.SourceTypeGitHub, result.SourceType)
	assert.True(t, result.IsGitRepo)
	assert.False(t, result.Updated)
	assert.Equal(t, 2, result.Files)
	assert.FileExists(t, filepath.Join(result.Dir, "rotabase.txt"))
}

func TestFetchGitPullsExistingClone(t *testing.T) {
	o := newOrigin(t)
	o.commit("rotabase.txt", "ALA  N  CA  CB\n")
	cache := t.TempDir()
	fetchBundle(t, o, cache)

	o.commit("mutations.yaml", "format: \"LL1{};\"\n")
	result := fetchBundle(t, o, cache)

	assert.True(t, result.Updated)
	assert.Equal(t, 2, result.Files)
	assert.FileExists(t, filepath.Join(result.Dir, "mutations.yaml"))
}

func TestFetchGitRecloneWhenPullFails(t *testing.T) {
	o := newOrigin(t)
	o.commit("rotabase.txt", "ALA  N  CA  CB\n")
	cache := t.TempDir()

	// A cached repository without an origin remote cannot be pulled
	stale := filepath.Join(cache, "github-user-templates")
	_, err := git.PlainInit(stale, false)
	require.NoError(t, err)
	testutil.WriteFile(t, stale, "leftover.txt", "x")

	result := fetchBundle(t, o, cache)

	assert.True(t, result.Updated)
	assert.FileExists(t, filepath.Join(stale, "rotabase.txt"))
	_, err = os.Stat(filepath.Join(stale, "leftover.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestFetchGitCloneFailureLeavesNoPartialClone(t *testing.T) {
	cache := t.TempDir()

	_, err := fetcher.Fetch(&fetcher.FetchConfig{
		Source:   bundleURL,
		CacheDir: cache,
		CloneURL: filepath.Join(t.TempDir(), "missing"),
	})
	require.Error(t, err)
	assert.NoDirExists(t, filepath.Join(cache, "github-user-templates"))
}
