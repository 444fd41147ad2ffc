package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/dayplan/internal/errors"
)

// newViperInstance creates a Viper instance with the DAYPLAN_ environment
// prefix, the key replacer and every default.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("DAYPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr) || os.IsNotExist(err)
}

// Load reads configuration from the global and project config files and the
// environment. A missing file is not an error.
func Load(ctx context.Context) (*Config, error) {
	project := ProjectConfigPath()
	if !fileExists(project) {
		project = ""
	}
	global, err := GlobalConfigPath()
	if err != nil || !fileExists(global) {
		global = ""
	}
	return load(ctx, global, project)
}

// LoadFile reads configuration from an explicit file on top of the global
// config, as selected by --config.
func LoadFile(ctx context.Context, path string) (*Config, error) {
	global, err := GlobalConfigPath()
	if err != nil || !fileExists(global) {
		global = ""
	}
	return load(ctx, global, path)
}

// LoadFromPaths loads configuration from specific file paths. Either path can
// be empty to skip that level.
func LoadFromPaths(ctx context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	return load(ctx, globalConfigPath, projectConfigPath)
}

func load(ctx context.Context, globalPath, overridePath string) (*Config, error) {
	v := newViperInstance()

	if globalPath != "" {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalPath)
		}
	}
	if overridePath != "" {
		v.SetConfigFile(overridePath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrapf(err, "failed to read config: %s", overridePath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("data_dir", cfg.DataDir).
		Str("timezone", cfg.Timezone).
		Dur("lock_timeout", cfg.LockTimeout).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// LoadWithOverrides loads configuration and applies non-zero CLI overrides.
func LoadWithOverrides(ctx context.Context, path string, overrides *Config) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, err = LoadFile(ctx, path)
	} else {
		cfg, err = Load(ctx)
	}
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// setDefaults mirrors DefaultConfig. Keys must match the mapstructure tags.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("templates_dir", d.TemplatesDir)
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("lock_timeout", d.LockTimeout.String())

	v.SetDefault("stats.enabled", d.Stats.Enabled)

	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)

	v.SetDefault("watch.refresh_interval", d.Watch.RefreshInterval.String())
	v.SetDefault("watch.reload_burst", d.Watch.ReloadBurst)
}

// applyOverrides merges non-zero override values into the config. Booleans
// cannot be overridden to false here; the CLI handles those explicitly.
func applyOverrides(cfg, overrides *Config) {
	if overrides.DataDir != "" {
		cfg.DataDir = overrides.DataDir
	}
	if overrides.TemplatesDir != "" {
		cfg.TemplatesDir = overrides.TemplatesDir
	}
	if overrides.Timezone != "" {
		cfg.Timezone = overrides.Timezone
	}
	if overrides.LockTimeout != 0 {
		cfg.LockTimeout = overrides.LockTimeout
	}
	if overrides.Watch.RefreshInterval != 0 {
		cfg.Watch.RefreshInterval = overrides.Watch.RefreshInterval
	}
}

// viperDecoderOption configures mapstructure to decode durations from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
