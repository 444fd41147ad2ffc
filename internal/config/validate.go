package config

import (
	"time"

	"github.com/mrz1836/dayplan/internal/errors"
)

// Validate checks the configuration for invalid values.
//
// Validation rules:
//   - templates_dir must not be empty
//   - timezone must be a known IANA zone
//   - lock_timeout must be positive
//   - watch.refresh_interval must be between 100ms and 1 minute
//   - watch.reload_burst must be at least 1
//   - log sizes and counts must not be negative
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if cfg.TemplatesDir == "" {
		return errors.Wrap(errors.ErrEmptyValue, "templates_dir")
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	if cfg.LockTimeout <= 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange, "lock_timeout must be positive, got %s", cfg.LockTimeout)
	}

	if err := validateWatchConfig(&cfg.Watch); err != nil {
		return err
	}
	return validateLogConfig(&cfg.Log)
}

func validateWatchConfig(cfg *WatchConfig) error {
	if cfg.RefreshInterval < 100*time.Millisecond || cfg.RefreshInterval > time.Minute {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"watch.refresh_interval must be between 100ms and 1m, got %s", cfg.RefreshInterval)
	}
	if cfg.ReloadBurst < 1 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"watch.reload_burst must be at least 1, got %d", cfg.ReloadBurst)
	}
	return nil
}

func validateLogConfig(cfg *LogConfig) error {
	if cfg.MaxSizeMB < 0 || cfg.MaxBackups < 0 || cfg.MaxAgeDays < 0 {
		return errors.Wrap(errors.ErrValueOutOfRange, "log sizes and counts must not be negative")
	}
	return nil
}
