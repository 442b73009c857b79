package config

import (
	"os"
	"path/filepath"
)

// Paths contains standard filesystem paths for tblx-ui.
type Paths struct {
	// ConfigFile is the path to the config file (~/.tblx/config.yaml).
	ConfigFile string

	// HomeDir is the tblx-ui home directory (~/.tblx).
	HomeDir string
}

// DefaultPaths returns the default paths for tblx-ui.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	home := filepath.Join(homeDir, ".tblx")

	return &Paths{
		ConfigFile: filepath.Join(home, "config.yaml"),
		HomeDir:    home,
	}, nil
}

// DefaultManifestPath returns registry.json next to the running binary, or
// in the working directory when the binary location is unknown.
func DefaultManifestPath(name string) string {
	exe, err := os.Executable()
	if err != nil {
		return name
	}
	return filepath.Join(filepath.Dir(exe), name)
}

// ExpandTilde expands a leading ~ or ~/ to the user's home directory.
// ~username forms and tildes elsewhere in the path are returned unchanged.
func ExpandTilde(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}
