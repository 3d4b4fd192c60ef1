// Package fileutil provides file, path and file-URI utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "certpdf-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
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

// FileURI converts an absolute filesystem path to a file:// URI that
// HTML renderers can load directly.
//
// Windows-style paths (drive letter volume) become file:///C:/dir/name
// with backslashes normalized to forward slashes. Other absolute paths
// keep the double-slash prefix: file:///home/user/name resolves the same
// as file:// + /home/user/name.
//
// The decision is made from the path shape, not runtime.GOOS, so the
// conversion behaves identically on every platform.
//
// Examples:
//   - `C:\uploads\sig.png` -> "file:///C:/uploads/sig.png"
//   - "/srv/static/bg.png" -> "file:///srv/static/bg.png"
func FileURI(path string) string {
	if hasDriveLetter(path) {
		return "file:///" + strings.ReplaceAll(path, `\`, "/")
	}
	return "file://" + path
}

// IsAbsPath reports whether the path is absolute on either platform
// convention: rooted (Unix) or starting with a drive-letter volume
// (Windows). filepath.IsAbs alone would miss Windows paths when the
// binary runs on Unix.
func IsAbsPath(path string) bool {
	return filepath.IsAbs(path) || hasDriveLetter(path)
}

// hasDriveLetter reports whether the path starts with a Windows volume
// like "C:".
func hasDriveLetter(path string) bool {
	if len(path) < 2 || path[1] != ':' {
		return false
	}
	c := path[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
