package config

import (
	"os"
	"path/filepath"
)

// Loader handles locating and loading the configuration file.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{Version: version, OverridePath: overridePath}
}

// Load attempts to load the configuration, falling back to defaults when no
// config file exists.
func (l *Loader) Load() (*Config, error) {
	path := l.ConfigPath()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// ConfigPath returns the path to the configuration file, or empty string if
// none was found.
func (l *Loader) ConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".scrannrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}
	home, _ := os.UserHomeDir()
	for _, name := range []string{"config.rc", "scrann.rc"} {
		path := filepath.Join(home, ".config", "scrann", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
