package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindConfigFile searches for one of the given file names starting from
// startDir and traversing up the directory tree. The search stops at the
// first directory containing go.mod.
//
// Example:
//
//	path, err := FindConfigFile(cwd, ".typetext.yaml", ".typetext.jsonc")
//	if err != nil {
//	    // no config file, use defaults
//	}
func FindConfigFile(startDir string, names ...string) (string, error) {
	absPath, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absPath
	for {
		for _, name := range names {
			candidate := filepath.Join(currentDir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		// Module root reached
		if _, err := os.Stat(filepath.Join(currentDir, "go.mod")); err == nil {
			break
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}
	return "", fmt.Errorf("none of %v found above %s", names, absPath)
}
