// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Git cloning of template bundles

package fetcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// fetchFromGit clones a bundle into the cache, or pulls an existing clone
func fetchFromGit(config *FetchConfig, sourceType string) (*FetchResult, error) {
	repoInfo, err := ParseGitURL(config.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse git URL: %w", err)
	}

	dest := filepath.Join(config.CacheDir, repoInfo.CacheName())
	result := &FetchResult{
		Source:     config.Source,
		Dir:        dest,
		SourceType: sourceType,
		IsGitRepo:  true,
	}

	if isGitRepository(dest) {
		if err := pull(config, dest); err != nil {
			// Depth-1 clones may refuse to pull, so clone again
			fmt.Fprintf(config.Progress, "Update failed (%v), cloning again\n", err)
			if err := os.RemoveAll(dest); err != nil {
				return nil, fmt.Errorf("failed to remove cached bundle %s: %w", dest, err)
			}
			if err := clone(config, dest); err != nil {
				return nil, err
			}
		}
		result.Updated = true
	} else if err := clone(config, dest); err != nil {
		return nil, err
	}

	files, err := countFiles(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to list template bundle: %w", err)
	}
	result.Files = files

	return result, nil
}

func clone(config *FetchConfig, dest string) error {
	cloneURL := NormalizeGitURL(config.Source)
	if config.CloneURL != "" {
		cloneURL = config.CloneURL
	}
	fmt.Fprintf(config.Progress, "Cloning %s into %s\n", cloneURL, dest)

	cloneOpts := &git.CloneOptions{
		URL:      cloneURL,
		Progress: config.Progress,
	}

	if config.ShallowClone {
		cloneOpts.Depth = 1
		cloneOpts.SingleBranch = true
		cloneOpts.ReferenceName = plumbing.HEAD
	}

	if _, err := git.PlainClone(dest, false, cloneOpts); err != nil {
		// Clean up partial clone on failure
		_ = os.RemoveAll(dest)
		return fmt.Errorf("failed to clone template bundle: %w", err)
	}
	return nil
}

func pull(config *FetchConfig, dest string) error {
	repo, err := git.PlainOpen(dest)
	if err != nil {
		return fmt.Errorf("failed to open cached bundle %s: %w", dest, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree of %s: %w", dest, err)
	}

	fmt.Fprintf(config.Progress, "Updating cached bundle %s\n", dest)
	err = worktree.Pull(&git.PullOptions{Progress: config.Progress})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to update template bundle: %w", err)
	}
	return nil
}
