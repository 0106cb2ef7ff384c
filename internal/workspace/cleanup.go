// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Cleanup functionality

package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cleanup removes the whole simulation folder.
// Nothing calls this implicitly; models accumulate until asked.
func (w *Workspace) Cleanup() error {
	if !w.Exists() {
		return nil
	}

	if err := os.RemoveAll(w.Root); err != nil {
		return fmt.Errorf("failed to cleanup workspace %s: %w", w.Root, err)
	}

	return nil
}

// CleanupStale removes peptide directories not modified for maxAge.
// Dot-directories such as the template cache are kept.
// Returns the number of directories removed.
func (w *Workspace) CleanupStale(maxAge time.Duration) (int, error) {
	info, err := os.Stat(w.Root)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to stat simulation folder %s: %w", w.Root, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s is not a directory", w.Root)
	}

	entries, err := os.ReadDir(w.Root)
	if err != nil {
		return 0, fmt.Errorf("failed to read simulation folder: %w", err)
	}

	now := time.Now()
	cleaned := 0

	for _, entry := range entries {
		if !isPeptideDir(entry) {
			continue
		}

		entryInfo, err := entry.Info()
		if err != nil {
			continue
		}

		if now.Sub(entryInfo.ModTime()) >= maxAge {
			if err := os.RemoveAll(filepath.Join(w.Root, entry.Name())); err == nil {
				cleaned++
			}
		}
	}

	return cleaned, nil
}
