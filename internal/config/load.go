package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	homeDirName    = ".velo"
	configFileName = "config.yaml"
)

// HomeDir returns VELO_HOME, or ~/.velo when unset.
func HomeDir() (string, error) {
	if h := os.Getenv("VELO_HOME"); h != "" {
		return h, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, homeDirName), nil
}

// ProjectConfigPath is relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(homeDirName, configFileName)
}

// Load reads the global and project config files, applies VELO_* overrides
// and validates the result. Missing files are not an error.
func Load(ctx context.Context) (*Config, error) {
	home, err := HomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFromPaths(ctx, filepath.Join(home, configFileName), ProjectConfigPath())
}

// LoadFromPaths loads configuration from explicit file paths. Either path
// may be empty or point at a missing file.
func LoadFromPaths(ctx context.Context, globalPath, projectPath string) (*Config, error) {
	v := newViperInstance()

	if err := mergeFile(v, globalPath); err != nil {
		return nil, fmt.Errorf("reading global config: %w", err)
	}
	if err := mergeFile(v, projectPath); err != nil {
		return nil, fmt.Errorf("reading project config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.DB.Path == "" {
		home, err := HomeDir()
		if err != nil {
			return nil, err
		}
		cfg.DB.Path = filepath.Join(home, "velo.db")
	}

	zerolog.Ctx(ctx).Debug().
		Str("db.path", cfg.DB.Path).
		Bool("generator.enabled", cfg.Generator.Enabled).
		Bool("knowledge.enabled", cfg.Knowledge.Enabled).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("VELO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func mergeFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("db.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("planning.max_ramp_pct", 0.10)
	v.SetDefault("planning.recovery_factor", 0.6)
	v.SetDefault("planning.stress_per_hour", 55.0)
	v.SetDefault("planning.min_weekly_stress", 200.0)
	v.SetDefault("planning.max_gain_watts_per_week", 2.5)
	v.SetDefault("planning.reference_hours", 8.0)
	v.SetDefault("planning.min_sessions", 3)
	v.SetDefault("planning.max_sessions", 7)
	v.SetDefault("planning.min_duration_min", 45)
	v.SetDefault("planning.max_duration_min", 180)

	v.SetDefault("generator.enabled", false)
	v.SetDefault("generator.endpoint", "http://localhost:11434")
	v.SetDefault("generator.model", "llama3.2")
	v.SetDefault("generator.timeout", "2m")
	v.SetDefault("generator.max_retries", 1)
	v.SetDefault("generator.tolerance", 0.15)
	v.SetDefault("generator.artifact_dir", "workouts")

	v.SetDefault("knowledge.enabled", false)
	v.SetDefault("knowledge.endpoint", "http://localhost:8600")
	v.SetDefault("knowledge.timeout", "20s")
	v.SetDefault("knowledge.limit", 5)
	v.SetDefault("knowledge.min_score", 0.5)
	v.SetDefault("knowledge.max_passages", 6)

	v.SetDefault("sync.fit_dir", "")
	v.SetDefault("sync.workers", 4)
	v.SetDefault("sync.timeout", "1m")
	v.SetDefault("sync.lookback_days", 42)
	v.SetDefault("sync.power_window_days", 90)

	v.SetDefault("server.address", "127.0.0.1:8080")

	v.SetDefault("schedule.resync", "")
	v.SetDefault("schedule.advance", "")

	v.SetDefault("cache.ttl", "1h")
}

func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
