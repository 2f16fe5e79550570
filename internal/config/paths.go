// ABOUTME: Standard filesystem paths for ttyevents configuration
// ABOUTME: Resolves ~/.ttyevents/ for global and .ttyevents/ for project-local files

package config

import (
	"os"
	"path/filepath"
)

const (
	dirName  = ".ttyevents"
	fileName = "config.yaml"
)

// GlobalDir returns the user-global config directory (~/.ttyevents/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", dirName)
	}
	return filepath.Join(home, dirName)
}

// ProjectDir returns the project-local config directory (.ttyevents/ in root).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, dirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), fileName)
}

// ProjectConfigFile returns the path to the project-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), fileName)
}
