// Package paths resolves where hbnb keeps its configuration and its data.
package paths

import (
	"os"
	"path/filepath"
)

// CWD-relative directory names used when nothing else is configured.
const (
	DefaultConfigDirName = ".hbnb"
	DefaultDataDirName   = ".hbnb-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "HBNB_CONFIG_DIR"
	EnvDataDir   = "HBNB_DATA_DIR"
)

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > HBNB_CONFIG_DIR env > $(CWD)/.hbnb.
func ResolveConfigDir(flag string) (string, error) {
	return firstAbs(DefaultConfigDirName, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config.yaml data_dir > HBNB_DATA_DIR env > $(CWD)/.hbnb-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	return firstAbs(DefaultDataDirName, flag, configValue, os.Getenv(EnvDataDir))
}

// firstAbs returns the first non-empty candidate as an absolute path, or
// fallback joined to the working directory.
func firstAbs(fallback string, candidates ...string) (string, error) {
	for _, dir := range candidates {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, fallback), nil
}
