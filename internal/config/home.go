package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the per-project directory holding config, logs and history
const DirName = ".jsontable"

// HomeEnv overrides the project directory used by GetHome
const HomeEnv = "JSONTABLE_HOME"

// GetHome returns the directory that contains the .jsontable directory
// Priority order:
//  1. JSONTABLE_HOME environment variable (if set)
//  2. Current working directory (fallback)
func GetHome() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return home, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}

// ResolvePaths anchors relative log_dir, history.db_path and base_dir to root
func (c *Config) ResolvePaths(root string) {
	c.LogDir = anchor(root, c.LogDir)
	c.BaseDir = anchor(root, c.BaseDir)
	if c.History.DBPath != "" && c.History.DBPath != ":memory:" {
		c.History.DBPath = anchor(root, c.History.DBPath)
	}
}

func anchor(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
