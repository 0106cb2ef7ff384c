// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Template bundle resolution

package fetcher

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Fetch resolves a template bundle. Local directories are used in place;
// GitHub/GitLab URLs are cloned (or pulled) below CacheDir.
func Fetch(config *FetchConfig) (*FetchResult, error) {
	if config == nil {
		return nil, fmt.Errorf("fetch config is nil")
	}

	if config.Source == "" {
		return nil, fmt.Errorf("source is empty")
	}

	// Set default progress writer
	if config.Progress == nil {
		config.Progress = io.Discard
	}

	sourceType := DetectSourceType(config.Source)

	switch sourceType {
	case SourceTypeGitHub, SourceTypeGitLab:
		if config.CacheDir == "" {
			return nil, fmt.Errorf("cache directory is empty")
		}
		return fetchFromGit(config, sourceType)
	case SourceTypeLocal:
		return fetchFromLocal(config)
	default:
		return nil, fmt.Errorf("unknown source type for: %s", config.Source)
	}
}

func fetchFromLocal(config *FetchConfig) (*FetchResult, error) {
	if err := ValidateLocalPath(config.Source); err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(config.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}

	files, err := countFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list template bundle: %w", err)
	}

	return &FetchResult{
		Source:     config.Source,
		Dir:        dir,
		SourceType: SourceTypeLocal,
		IsGitRepo:  isGitRepository(dir),
		Files:      files,
	}, nil
}

// DetectSourceType determines if the source is a GitHub/GitLab URL or local path
func DetectSourceType(source string) string {
	if IsGitHubURL(source) {
		return SourceTypeGitHub
	}

	if IsGitLabURL(source) {
		return SourceTypeGitLab
	}

	if isLocalPath(source) {
		return SourceTypeLocal
	}

	return SourceTypeUnknown
}

// IsGitHubURL checks if the source is a valid GitHub URL
func IsGitHubURL(source string) bool {
	return githubHTTPSPattern.MatchString(source) || githubSSHPattern.MatchString(source)
}

// IsGitLabURL checks if the source is a valid GitLab URL
func IsGitLabURL(source string) bool {
	return gitlabHTTPSPattern.MatchString(source) || gitlabSSHPattern.MatchString(source)
}

// ParseGitURL extracts owner and repo from a GitHub or GitLab URL
func ParseGitURL(url string) (*GitRepoInfo, error) {
	patterns := []struct {
		re       *regexp.Regexp
		platform string
	}{
		{githubHTTPSPattern, SourceTypeGitHub},
		{githubSSHPattern, SourceTypeGitHub},
		{gitlabHTTPSPattern, SourceTypeGitLab},
		{gitlabSSHPattern, SourceTypeGitLab},
	}

	for _, p := range patterns {
		if matches := p.re.FindStringSubmatch(url); matches != nil {
			return &GitRepoInfo{
				Owner:    matches[1],
				Repo:     strings.TrimSuffix(matches[2], ".git"),
				URL:      url,
				Platform: p.platform,
			}, nil
		}
	}

	return nil, fmt.Errorf("invalid git URL: %s", url)
}

// NormalizeGitURL converts various git URL formats to HTTPS
func NormalizeGitURL(url string) string {
	info, err := ParseGitURL(url)
	if err != nil {
		return url
	}

	switch info.Platform {
	case SourceTypeGitHub:
		return fmt.Sprintf("https://github.com/%s/%s.git", info.Owner, info.Repo)
	case SourceTypeGitLab:
		return fmt.Sprintf("https://gitlab.com/%s/%s.git", info.Owner, info.Repo)
	default:
		return url
	}
}

// CacheName returns the directory name a git bundle is cloned into
func (g *GitRepoInfo) CacheName() string {
	return fmt.Sprintf("%s-%s-%s", g.Platform, g.Owner, g.Repo)
}

// isLocalPath checks if the source appears to be a local path
func isLocalPath(source string) bool {
	if filepath.IsAbs(source) {
		return true
	}

	if source == "." || source == ".." {
		return true
	}

	if strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../") {
		return true
	}

	if _, err := os.Stat(source); err == nil {
		return true
	}

	// Not a URL, so a relative path that may not exist yet
	return !strings.Contains(source, "://") && !strings.Contains(source, "@")
}

// ValidateLocalPath validates that a local path exists and is a directory
func ValidateLocalPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", absPath)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied: %s", absPath)
		}
		return fmt.Errorf("failed to stat path: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", absPath)
	}

	return nil
}

// isGitRepository checks if a directory is a git repository
func isGitRepository(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// countFiles counts the regular files at the top of dir
func countFiles(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			count++
		}
	}
	return count, nil
}
