package cascade

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading "~" (the home directory) and makes path absolute relative to the working directory. An empty path stays empty.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}

	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			path = filepath.Join(home, path[1:])
		}
	}

	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// InUserConfigDirectory returns an absolute path under the user's home directory for user-specific config files, joined with subPath (ex: "~/.docstub/config.yaml"
// with ~ expanded).
func InUserConfigDirectory(subPath string) string {
	return filepath.Join(ExpandPath("~"), subPath)
}
