// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Renaming FoldX models after their peptide

package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sony-level/peptide-runner/internal/workspace"
)

// ErrModelMissing is returned when FoldX left no model file behind
var ErrModelMissing = errors.New("foldx model file not found")

// ModelExt is the extension of FoldX model files
const ModelExt = ".pdb"

// ModelFileName returns the name FoldX gives to model index of a structure:
// the structure name without its extension, "_<index>" and ".pdb".
// ModelFileName("3PWN_Repair.pdb", 1) is "3PWN_Repair_1.pdb".
func ModelFileName(structure string, index int) string {
	stem := strings.TrimSuffix(structure, filepath.Ext(structure))
	return fmt.Sprintf("%s_%d%s", stem, index, ModelExt)
}

// PeptideFileName returns the final model name of a peptide
func PeptideFileName(peptide string) string {
	return peptide + ModelExt
}

// Rename copies model index of structure inside dir to <peptide>.pdb in the
// same directory and returns the new path. Nothing is written when the model
// is missing.
func Rename(dir, peptide, structure string, index int) (string, error) {
	src := filepath.Join(dir, ModelFileName(structure, index))
	dst := filepath.Join(dir, PeptideFileName(peptide))

	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrModelMissing, src)
		}
		return "", fmt.Errorf("failed to stat model %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("model %s is not a regular file", src)
	}

	if _, err := workspace.CopyFile(src, dst); err != nil {
		return "", fmt.Errorf("failed to copy model for %s: %w", peptide, err)
	}
	return dst, nil
}
