// Package fs locates the configuration file and reads and writes directory
// trees for multi-file comparison and patching.
package fs

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// EnvConfig names the environment variable overriding the config file path.
const EnvConfig = "CODEDIFF_CONFIG"

// DefaultConfigPath returns the config file location: $CODEDIFF_CONFIG if set
// (a leading ~ is expanded), otherwise codediff/config.yaml under
// XDG_CONFIG_HOME, falling back to ~/.config/codediff/config.yaml, or the
// system temp directory if home is unavailable.
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		if expanded, err := homedir.Expand(p); err == nil {
			return expanded
		}
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codediff", "config.yaml")
	}
	home, err := homedir.Dir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "codediff", "config.yaml")
	}
	return filepath.Join(home, ".config", "codediff", "config.yaml")
}
