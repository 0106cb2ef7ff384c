// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Fetcher tests

package tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sony-level/peptide-runner/internal/fetcher"
	"github.com/sony-level/peptide-runner/internal/testutil"
)

func TestDetectSourceType(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"github https", "https://github.com/user/templates", fetcher.SourceTypeGitHub},
		{"github https with .git", "https://github.com/user/templates.git", fetcher.SourceTypeGitHub},
		{"github ssh", "git@github.com:user/templates.git", fetcher.SourceTypeGitHub},
		{"gitlab https", "https://gitlab.com/user/templates", fetcher.SourceTypeGitLab},
		{"gitlab ssh", "git@gitlab.com:user/templates.git", fetcher.SourceTypeGitLab},
		{"current dir", ".", fetcher.SourceTypeLocal},
		{"relative path", "./templates/3pwn", fetcher.SourceTypeLocal},
		{"bare name", "templates", fetcher.SourceTypeLocal},
		{"other host", "https://example.org/user/templates", fetcher.SourceTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fetcher.DetectSourceType(tt.source))
		})
	}
}

func TestParseGitURL(t *testing.T) {
	tests := []struct {
		url      string
		owner    string
		repo     string
		platform string
	}{
		{"https://github.com/lab/foldx-templates", "lab", "foldx-templates", fetcher.SourceTypeGitHub},
		{"git@github.com:lab/foldx-templates.git", "lab", "foldx-templates", fetcher.SourceTypeGitHub},
		{"https://gitlab.com/lab/foldx-templates.git", "lab", "foldx-templates", fetcher.SourceTypeGitLab},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			info, err := fetcher.ParseGitURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.owner, info.Owner)
			assert.Equal(t, tt.repo, info.Repo)
			assert.Equal(t, tt.platform, info.Platform)
			assert.Equal(t, tt.platform+"-lab-foldx-templates", info.CacheName())
		})
	}

	_, err := fetcher.ParseGitURL("https://example.org/lab/repo")
	assert.Error(t, err)
}

func TestNormalizeGitURL(t *testing.T) {
	assert.Equal(t, "https://github.com/lab/t.git", fetcher.NormalizeGitURL("git@github.com:lab/t.git"))
	assert.Equal(t, "https://gitlab.com/lab/t.git", fetcher.NormalizeGitURL("https://gitlab.com/lab/t"))
	assert.Equal(t, "/local/path", fetcher.NormalizeGitURL("/local/path"))
}

func TestValidateLocalPath(t *testing.T) {
	dir := t.TempDir()
	file := testutil.WriteFile(t, dir, "3PWN_Repair.pdb", "END\n")

	assert.NoError(t, fetcher.ValidateLocalPath(dir))
	assert.Error(t, fetcher.ValidateLocalPath(file))
	assert.Error(t, fetcher.ValidateLocalPath(filepath.Join(dir, "missing")))
}

func TestFetchLocalBundle(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "3PWN_Repair.pdb", "END\n")
	testutil.WriteFile(t, dir, "rotabase.txt", "x\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0755))

	result, err := fetcher.Fetch(&fetcher.FetchConfig{Source: dir})
	require.NoError(t, err)

	assert.Equal(t, dir, result.Dir)
	assert.Equal(t, fetcher.SourceTypeLocal, result.SourceType)
	assert.Equal(t, 2, result.Files)
	assert.False(t, result.IsGitRepo)
	assert.False(t, result.Updated)
}

func TestFetchValidation(t *testing.T) {
	_, err := fetcher.Fetch(nil)
	assert.Error(t, err)

	_, err = fetcher.Fetch(&fetcher.FetchConfig{})
	assert.Error(t, err)

	_, err = fetcher.Fetch(&fetcher.FetchConfig{Source: "https://github.com/lab/templates"})
	assert.Error(t, err, "git sources need a cache directory")

	_, err = fetcher.Fetch(&fetcher.FetchConfig{Source: "https://example.org/lab/templates"})
	assert.Error(t, err)
}
