package utils

import (
	"path/filepath"
	"strings"

	"github.com/tensorir/tirc/internal/config"
)

// ExtractModuleName derives a module name from a file path.
// It takes the base filename and removes the source extension.
func ExtractModuleName(path string) string {
	// Get the base filename
	name := filepath.Base(path)

	// Remove extension if present
	name = strings.TrimSuffix(name, config.SourceFileExt)

	return name
}

// GetModuleDir returns the directory context for a module path, used by
// cmd/tircparse in its startup debug-log line. If the path points to a
// file (ends with .tir), returns the
// file's directory. If the path points to a directory (no extension),
// returns the path itself.
func GetModuleDir(path string) string {
	if strings.HasSuffix(path, config.SourceFileExt) {
		return filepath.Dir(path)
	}
	return path
}
