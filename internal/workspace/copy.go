// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Verbatim file copies

package workspace

import (
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies src to dst byte for byte, truncating dst if it exists.
// The destination keeps the source file mode.
func CopyFile(src, dst string) (int64, error) {
	return copyFile(src, dst)
}

func copyFile(src, dst string) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, err
	}

	// Ensure destination directory exists
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(dstFile, srcFile)
	if err != nil {
		dstFile.Close()
		return 0, err
	}

	return written, dstFile.Close()
}
