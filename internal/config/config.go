// Package config provides configuration management for dayplan with layered
// precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (DAYPLAN_* prefix)
//  3. Explicit config file (--config) or project config (.dayplan/config.yaml)
//  4. Global config (~/.dayplan/config.yaml)
//  5. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import (
	"time"

	"github.com/mrz1836/dayplan/internal/constants"
)

// Config is the root configuration structure for dayplan.
type Config struct {
	// DataDir holds templates, execution logs, day state and the running record.
	// Default: ~/.dayplan
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// TemplatesDir overrides the template directory. Relative paths are
	// resolved against DataDir. Default: "tasks"
	TemplatesDir string `yaml:"templates_dir" mapstructure:"templates_dir"`

	// Timezone is the IANA zone dates and slots are evaluated in.
	// Default: "Local"
	Timezone string `yaml:"timezone" mapstructure:"timezone"`

	// LockTimeout bounds how long a write waits for a file lock.
	LockTimeout time.Duration `yaml:"lock_timeout" mapstructure:"lock_timeout"`

	// Stats controls the daily summary recompute.
	Stats StatsConfig `yaml:"stats" mapstructure:"stats"`

	// Log controls the rotating log file.
	Log LogConfig `yaml:"log" mapstructure:"log"`

	// Watch controls the long-running watch command.
	Watch WatchConfig `yaml:"watch" mapstructure:"watch"`
}

// StatsConfig contains settings for daily statistics.
type StatsConfig struct {
	// Enabled recomputes the daily summary after every stop and reset.
	// Default: true
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// LogConfig contains settings for the rotating log file.
type LogConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// WatchConfig contains settings for watch mode.
type WatchConfig struct {
	// RefreshInterval is how often the running timer is redrawn.
	// Default: 1s
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"`

	// ReloadBurst is how many file-change reloads may run back to back
	// before further changes are coalesced. Default: 3
	ReloadBurst int `yaml:"reload_burst" mapstructure:"reload_burst"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:      "",
		TemplatesDir: constants.TasksDir,
		Timezone:     "Local",
		LockTimeout:  constants.DefaultLockTimeout,
		Stats:        StatsConfig{Enabled: true},
		Log: LogConfig{
			MaxSizeMB:  constants.LogMaxSizeMB,
			MaxBackups: constants.LogMaxBackups,
			MaxAgeDays: constants.LogMaxAgeDays,
			Compress:   constants.LogCompress,
		},
		Watch: WatchConfig{
			RefreshInterval: constants.DisplayRefreshInterval,
			ReloadBurst:     constants.DefaultReloadBurst,
		},
	}
}
