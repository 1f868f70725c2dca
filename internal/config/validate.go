package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var ErrConfigNil = errors.New("config is nil")

// Validate returns the first out-of-range setting it finds.
func Validate(cfg *Config) error {
	if cfg == nil {
		return ErrConfigNil
	}
	if cfg.DB.Path == "" {
		return fmt.Errorf("db.path must not be empty")
	}
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level %q: %w", cfg.Log.Level, err)
	}
	if err := cfg.Macro().Validate(); err != nil {
		return fmt.Errorf("planning: %w", err)
	}
	if err := cfg.WeekPlan().Validate(); err != nil {
		return fmt.Errorf("planning: %w", err)
	}
	if err := validateGenerator(&cfg.Generator); err != nil {
		return err
	}
	if err := validateKnowledge(&cfg.Knowledge); err != nil {
		return err
	}
	if cfg.Sync.Workers < 1 || cfg.Sync.Workers > 64 {
		return fmt.Errorf("sync.workers must be between 1 and 64, got %d", cfg.Sync.Workers)
	}
	if cfg.Sync.Timeout <= 0 {
		return fmt.Errorf("sync.timeout must be positive, got %s", cfg.Sync.Timeout)
	}
	if cfg.Sync.LookbackDays < 1 {
		return fmt.Errorf("sync.lookback_days must be positive, got %d", cfg.Sync.LookbackDays)
	}
	if cfg.Sync.PowerWindowDays < 1 {
		return fmt.Errorf("sync.power_window_days must be positive, got %d", cfg.Sync.PowerWindowDays)
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", cfg.Cache.TTL)
	}
	return nil
}

func validateGenerator(cfg *GeneratorConfig) error {
	if cfg.Timeout <= 0 {
		return fmt.Errorf("generator.timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("generator.max_retries must not be negative, got %d", cfg.MaxRetries)
	}
	if cfg.Tolerance <= 0 || cfg.Tolerance >= 1 {
		return fmt.Errorf("generator.tolerance must be in (0, 1), got %.2f", cfg.Tolerance)
	}
	if cfg.Enabled && (cfg.Endpoint == "" || cfg.Model == "") {
		return fmt.Errorf("generator.endpoint and generator.model are required when the generator is enabled")
	}
	return nil
}

func validateKnowledge(cfg *KnowledgeConfig) error {
	if cfg.Timeout <= 0 {
		return fmt.Errorf("knowledge.timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.Limit < 1 || cfg.MaxPassages < 1 {
		return fmt.Errorf("knowledge.limit and knowledge.max_passages must be positive")
	}
	if cfg.MinScore < 0 || cfg.MinScore > 1 {
		return fmt.Errorf("knowledge.min_score must be in [0, 1], got %.2f", cfg.MinScore)
	}
	if cfg.Enabled && cfg.Endpoint == "" {
		return fmt.Errorf("knowledge.endpoint is required when knowledge search is enabled")
	}
	return nil
}
