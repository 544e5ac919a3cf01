package cmd

import (
	"path/filepath"

	"github.com/Dummi26/mers/internal/config"
	"github.com/Dummi26/mers/internal/token"
)

// rangeAt builds a zero-width token.Range from a 1-indexed line/column,
// enough for internal/errors' renderer to print a position even though
// pkg/mers.Error only carries a point, not a span.
func rangeAt(line, col int) token.Range {
	pos := token.Position{Line: line, Column: col}
	return token.Range{Start: pos, End: pos}
}

// loadProjectFileNear looks for mers.toml in dir, falling back to
// defaults if absent.
func loadProjectFileNear(dir string) (*config.ProjectFile, error) {
	return config.LoadProjectFile(filepath.Join(dir, "mers.toml"))
}
