// Package fileops provides file operation utilities for copying directory
// trees and measuring their size.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Exported constants.
const (
	// BufferSize is the size of the buffer used for file copy operations (32KB)
	BufferSize = 32 * 1024
	// DefaultDirPermissions is the default permission mode for created directories
	DefaultDirPermissions = 0o750
)

// CopyFile copies a single file from src to dst, overwriting any existing
// destination file. Parent directories of dst are created as needed and the
// source's modification time is preserved on the copy.
func CopyFile(src, dst string) (int64, error) {
	sourceFile, err := os.Open(src) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return 0, fmt.Errorf("failed to open source file %s: %w", src, err)
	}

	defer func() {
		_ = sourceFile.Close()
	}()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat source file %s: %w", src, err)
	}

	dstDir := filepath.Dir(dst)

	err = os.MkdirAll(dstDir, DefaultDirPermissions)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination directory %s: %w", dstDir, err)
	}

	destFile, err := os.Create(dst) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return 0, fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	written, err := copyLoop(sourceFile, destFile)
	if err != nil {
		_ = destFile.Close()
		return written, fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	// Close before setting the modification time; some filesystems flush
	// metadata on close.
	err = destFile.Close()
	if err != nil {
		return written, fmt.Errorf("failed to close destination file %s: %w", dst, err)
	}

	err = os.Chtimes(dst, sourceInfo.ModTime(), sourceInfo.ModTime())
	if err != nil {
		return written, fmt.Errorf("failed to preserve modification time for %s: %w", dst, err)
	}

	return written, nil
}

// CopyTree recursively copies the directory at src into dst, merging with any
// existing destination contents. Files already present under dst are
// overwritten; files present under dst but absent under src are left alone.
// Returns the number of files copied and the total bytes written.
func CopyTree(src, dst string) (int, int64, error) {
	var (
		files int
		total int64
	)

	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk error at %s: %w", path, err)
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}

		target := filepath.Join(dst, relPath)

		if info.IsDir() {
			err = os.MkdirAll(target, DefaultDirPermissions)
			if err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}

			return nil
		}

		written, err := CopyFile(path, target)
		if err != nil {
			return err
		}

		files++
		total += written

		return nil
	})
	if err != nil {
		return files, total, err
	}

	return files, total, nil
}

// DirSize returns the total size in bytes of all regular files under root,
// recursively. A missing root counts as zero.
func DirSize(root string) (int64, error) {
	var total int64

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk error at %s: %w", path, err)
		}

		if info.Mode().IsRegular() {
			total += info.Size()
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}

		return total, fmt.Errorf("failed to measure %s: %w", root, err)
	}

	return total, nil
}

// PathSize returns the size of the file or directory tree at path. Missing
// paths count as zero.
func PathSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.IsDir() {
		return DirSize(path)
	}

	return info.Size(), nil
}

// copyLoop performs the buffered copy from sourceFile to destFile.
func copyLoop(sourceFile, destFile *os.File) (int64, error) {
	var written int64

	buf := make([]byte, BufferSize)

	for {
		nr, err := sourceFile.Read(buf) //nolint:varnamelen // nr is idiomatic for bytes read
		if nr > 0 {
			nw, err := destFile.Write(buf[0:nr]) //nolint:varnamelen // nw is idiomatic for bytes written
			if err != nil {
				return written, fmt.Errorf("failed to write to destination: %w", err)
			}

			if nr != nw {
				return written, fmt.Errorf("short write: %w", io.ErrShortWrite)
			}

			written += int64(nw)
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return written, fmt.Errorf("failed to read from source: %w", err)
		}
	}

	return written, nil
}
