package units

import (
	"fmt"
	"os"
	"path/filepath"
)

// fileExists reports whether path names a regular, readable file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// FindInclude resolves an `#include "path"` target to an absolute file
// path. path is tried, in order: relative to fromDir (the directory of
// the file doing the including), then relative to each entry of
// searchPaths. An already-absolute path is used as-is if it exists.
//
// Grounded on the teacher's internal/units search_test.go (FindUnit):
// same multi-root, first-match-wins search, adapted from unit-name
// lookup (trying file extensions) to a literal path (no extension
// guessing -- mers' #include names a file, not a unit).
func FindInclude(path, fromDir string, searchPaths []string) (string, error) {
	if filepath.IsAbs(path) {
		if fileExists(path) {
			return path, nil
		}
		return "", fmt.Errorf("include %q not found", path)
	}

	candidate := filepath.Join(fromDir, path)
	if fileExists(candidate) {
		return filepath.Abs(candidate)
	}

	tried := []string{candidate}
	for _, root := range searchPaths {
		candidate := filepath.Join(root, path)
		if fileExists(candidate) {
			return filepath.Abs(candidate)
		}
		tried = append(tried, candidate)
	}
	return "", fmt.Errorf("include %q not found, searched: %v", path, tried)
}
