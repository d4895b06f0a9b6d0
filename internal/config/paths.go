package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the project.
type Paths struct {
	Root    string
	Config  string
	Env     string
	LogFile string
	Exports string
}

// DetectProjectRoot walks up from the current working directory looking for a
// directory that contains config.json. Returns the absolute path or an error
// if not found.
func DetectProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding config.json.
			return "", fmt.Errorf("config.json not found in any parent directory")
		}
		dir = parent
	}
}

// ResolveRoot is DetectProjectRoot falling back to the working directory, so
// the tool runs on defaults outside a project.
func ResolveRoot() (string, error) {
	if root, err := DetectProjectRoot(); err == nil {
		return root, nil
	}
	return os.Getwd()
}

// NewPaths resolves the project files relative to root, using the log file
// of the loaded config when there is one.
func NewPaths(root string) *Paths {
	mu.RLock()
	cfg := globalCfg
	mu.RUnlock()
	if cfg == nil {
		cfg = Default()
	}

	return &Paths{
		Root:    root,
		Config:  filepath.Join(root, FileName),
		Env:     filepath.Join(root, ".env"),
		LogFile: cfg.LogPath(root),
		Exports: filepath.Join(root, "exports"),
	}
}

// LogPath returns the dashboard log file, resolved against root when
// relative.
func (c *Config) LogPath(root string) string {
	p := c.Dashboard.LogFile
	if p == "" {
		p = Default().Dashboard.LogFile
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	return p
}
