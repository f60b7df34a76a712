// Package paths provides centralized path handling for polkadots.
// It implements the "intuitive path" rules used when resolving action
// parameters (environment variable expansion, tilde expansion, joining
// relative paths onto the dotfile repository) and XDG-compliant discovery
// of the configuration directory.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default directories and files
const (
	// AppDirName is the directory name for polkadots-specific files
	AppDirName = "polkadots"

	// ConfigFileName is the name of the legacy single-file config
	ConfigFileName = "config.json"

	// ProfilesDirName is the subdirectory holding named profiles
	ProfilesDirName = "profiles"

	// RepoFileName is the file inside a new-style config directory that
	// names the dotfile repository root
	RepoFileName = "dotfile_repo"
)

// ExpandPath expands a leading tilde to the user's home directory and
// expands environment variables. Paths that cannot be expanded are
// returned unchanged.
func ExpandPath(path string) string {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return os.ExpandEnv(path)
}

// Intuitive resolves a user-authored path the way people expect: variables
// and tildes are expanded, and a relative result is joined onto base.
// Absolute results ignore base entirely.
func Intuitive(path, base string) string {
	expanded := ExpandPath(path)
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded)
	}
	return filepath.Join(ExpandPath(base), expanded)
}

// ConfigDir returns the polkadots configuration directory, following the
// XDG Base Directory specification (~/.config/polkadots by default).
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// ConfigPath finds the path to load a config from.
//
// basedir is the directory to work under (normally ConfigDir()). If
// profileName is non-empty the config comes from profiles/<name> under it.
// config2 selects the new-style config directory over the legacy
// config.json file.
func ConfigPath(basedir, profileName string, config2 bool) string {
	path := basedir
	if profileName != "" {
		path = filepath.Join(path, ProfilesDirName, profileName)
	}
	if config2 {
		return path
	}
	return filepath.Join(path, ConfigFileName)
}
