package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mrz1836/dayplan/internal/constants"
	"github.com/mrz1836/dayplan/internal/errors"
)

// GlobalConfigDir returns the path to the global dayplan directory.
// This is typically ~/.dayplan on Unix systems.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.DataHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
func ProjectConfigPath() string {
	return filepath.Join(constants.ProjectConfigDir, constants.GlobalConfigName)
}

// ResolveDataDir returns the absolute data directory, defaulting to the
// global dayplan directory and expanding a leading "~".
func (c *Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		return GlobalConfigDir()
	}
	if dir == "~" || len(dir) > 1 && dir[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to get home directory")
		}
		dir = filepath.Join(home, dir[1:])
	}
	return filepath.Abs(dir)
}

// ResolveTemplatesDir returns the template directory for dataDir.
func (c *Config) ResolveTemplatesDir(dataDir string) string {
	if filepath.IsAbs(c.TemplatesDir) {
		return c.TemplatesDir
	}
	return filepath.Join(dataDir, c.TemplatesDir)
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrConfigInvalidTimezone, "%q", c.Timezone)
	}
	return loc, nil
}
