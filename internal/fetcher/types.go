// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Fetcher types and constants

package fetcher

import (
	"io"
	"regexp"
)

// Source type constants
const (
	SourceTypeUnknown = "unknown"
	SourceTypeGitHub  = "github"
	SourceTypeGitLab  = "gitlab"
	SourceTypeLocal   = "local"
)

// CacheSubdir holds cloned template bundles inside the simulation folder
const CacheSubdir = ".templates"

var (
	// HTTPS: https://github.com/user/repo or https://github.com/user/repo.git
	githubHTTPSPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	// SSH: git@github.com:user/repo.git
	githubSSHPattern = regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+?)(?:\.git)?$`)
	// HTTPS: https://gitlab.com/user/repo or https://gitlab.com/user/repo.git
	gitlabHTTPSPattern = regexp.MustCompile(`^https?://gitlab\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	// SSH: git@gitlab.com:user/repo.git
	gitlabSSHPattern = regexp.MustCompile(`^git@gitlab\.com:([^/]+)/([^/]+?)(?:\.git)?$`)
)

// FetchConfig holds configuration for resolving a template bundle
type FetchConfig struct {
	Source       string    // git URL or local directory
	CacheDir     string    // where git bundles are cloned
	CloneURL     string    // mirror to clone from instead of Source (optional)
	Progress     io.Writer // clone progress (optional, defaults to io.Discard)
	ShallowClone bool      // depth=1 clone
}

// FetchResult describes a resolved template bundle
type FetchResult struct {
	Source     string // as configured
	Dir        string // Directory holding the bundle files
	SourceType string
	IsGitRepo  bool
	Updated    bool // an existing clone was pulled
	Files      int
}

// GitRepoInfo contains parsed git repository information
type GitRepoInfo struct {
	Owner    string
	Repo     string
	URL      string
	Platform string // "github" or "gitlab"
}
