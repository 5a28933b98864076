// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotMarkdown rejects files without a markdown extension.
var ErrNotMarkdown = errors.New("file must have .md, .markdown or .mdx extension")

// markdownExtensions maps recognized extensions to their format name.
var markdownExtensions = map[string]string{
	".md":       "markdown",
	".markdown": "markdown",
	".mdx":      "mdx",
}

// IsMarkdown reports whether path has a recognized markdown extension.
// Matching ignores case.
func IsMarkdown(path string) bool {
	_, ok := markdownExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// FormatForPath returns "mdx" for .mdx files and "markdown" for the other
// markdown extensions.
func FormatForPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := markdownExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: got %q", ErrNotMarkdown, filepath.Ext(path))
	}
	return format, nil
}

// WriteFileAtomic writes data to a temporary file in the target directory
// and renames it over path, so readers never observe a partial file.
// Missing parent directories are created.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".doxify-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if chmodErr := os.Chmod(tmpPath, perm); chmodErr != nil {
		return fmt.Errorf("setting permissions: %w", chmodErr)
	}
	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		return fmt.Errorf("renaming temp file: %w", renameErr)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "doxify" -> false (name)
//   - "./doxify.yaml" -> true (relative path)
//   - "/etc/doxify.yaml" -> true (absolute)
//   - "C:\config\doxify.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
