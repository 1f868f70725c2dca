// Package config loads velo settings with layered precedence.
//
// Sources, highest precedence first:
//  1. Environment variables (VELO_* prefix, dots become underscores)
//  2. Project config (.velo/config.yaml)
//  3. Global config (~/.velo/config.yaml)
//  4. Built-in defaults
package config

import (
	"time"

	"github.com/alexanderramin/velo/internal/macro"
	"github.com/alexanderramin/velo/internal/service"
	"github.com/alexanderramin/velo/internal/weekplan"
)

// Config is the root configuration.
type Config struct {
	DB        DBConfig        `yaml:"db" mapstructure:"db"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Planning  PlanningConfig  `yaml:"planning" mapstructure:"planning"`
	Generator GeneratorConfig `yaml:"generator" mapstructure:"generator"`
	Knowledge KnowledgeConfig `yaml:"knowledge" mapstructure:"knowledge"`
	Sync      SyncConfig      `yaml:"sync" mapstructure:"sync"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Schedule  ScheduleConfig  `yaml:"schedule" mapstructure:"schedule"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
}

type DBConfig struct {
	// Path of the SQLite file. ":memory:" keeps everything in memory.
	Path string `yaml:"path" mapstructure:"path"`
}

type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	File       string `yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
}

// PlanningConfig tunes the macro designer and the week planner.
type PlanningConfig struct {
	MaxRampPct          float64 `yaml:"max_ramp_pct" mapstructure:"max_ramp_pct"`
	RecoveryFactor      float64 `yaml:"recovery_factor" mapstructure:"recovery_factor"`
	StressPerHour       float64 `yaml:"stress_per_hour" mapstructure:"stress_per_hour"`
	MinWeeklyStress     float64 `yaml:"min_weekly_stress" mapstructure:"min_weekly_stress"`
	MaxGainWattsPerWeek float64 `yaml:"max_gain_watts_per_week" mapstructure:"max_gain_watts_per_week"`
	ReferenceHours      float64 `yaml:"reference_hours" mapstructure:"reference_hours"`
	MinSessions         int     `yaml:"min_sessions" mapstructure:"min_sessions"`
	MaxSessions         int     `yaml:"max_sessions" mapstructure:"max_sessions"`
	MinDurationMin      int     `yaml:"min_duration_min" mapstructure:"min_duration_min"`
	MaxDurationMin      int     `yaml:"max_duration_min" mapstructure:"max_duration_min"`
}

// GeneratorConfig configures the Ollama workout generator.
type GeneratorConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint    string        `yaml:"endpoint" mapstructure:"endpoint"`
	Model       string        `yaml:"model" mapstructure:"model"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRetries  int           `yaml:"max_retries" mapstructure:"max_retries"`
	Tolerance   float64       `yaml:"tolerance" mapstructure:"tolerance"`
	ArtifactDir string        `yaml:"artifact_dir" mapstructure:"artifact_dir"`
}

// KnowledgeConfig configures the training-theory search service.
type KnowledgeConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint    string        `yaml:"endpoint" mapstructure:"endpoint"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Limit       int           `yaml:"limit" mapstructure:"limit"`
	MinScore    float64       `yaml:"min_score" mapstructure:"min_score"`
	MaxPassages int           `yaml:"max_passages" mapstructure:"max_passages"`
}

// SyncConfig configures activity resync from FIT files.
type SyncConfig struct {
	FitDir       string        `yaml:"fit_dir" mapstructure:"fit_dir"`
	Workers      int           `yaml:"workers" mapstructure:"workers"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	LookbackDays int           `yaml:"lookback_days" mapstructure:"lookback_days"`
	// PowerWindowDays is how far back recent best efforts reach.
	PowerWindowDays int `yaml:"power_window_days" mapstructure:"power_window_days"`
}

type ServerConfig struct {
	Address string `yaml:"address" mapstructure:"address"`
}

// ScheduleConfig holds cron specs for background jobs. Empty disables a job.
type ScheduleConfig struct {
	Resync  string `yaml:"resync" mapstructure:"resync"`
	Advance string `yaml:"advance" mapstructure:"advance"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// Macro returns the designer settings.
func (c *Config) Macro() macro.Config {
	m := macro.DefaultConfig()
	m.MaxRampPct = c.Planning.MaxRampPct
	m.RecoveryFactor = c.Planning.RecoveryFactor
	m.StressPerHour = c.Planning.StressPerHour
	m.MinWeeklyStress = c.Planning.MinWeeklyStress
	m.MaxGainWattsPerWeek = c.Planning.MaxGainWattsPerWeek
	m.ReferenceHours = c.Planning.ReferenceHours
	return m
}

// WeekPlan returns the week planner settings.
func (c *Config) WeekPlan() weekplan.Config {
	return weekplan.Config{
		MinSessions:    c.Planning.MinSessions,
		MaxSessions:    c.Planning.MaxSessions,
		MinDurationMin: c.Planning.MinDurationMin,
		MaxDurationMin: c.Planning.MaxDurationMin,
	}
}

// Service returns the use-case settings.
func (c *Config) Service() service.Config {
	s := service.DefaultConfig()
	s.Macro = c.Macro()
	s.WeekPlan = c.WeekPlan()
	s.GeneratorTimeout = c.Generator.Timeout
	s.ResyncTimeout = c.Sync.Timeout
	s.KnowledgeTimeout = c.Knowledge.Timeout
	s.Tolerance = c.Generator.Tolerance
	s.PowerWindow = time.Duration(c.Sync.PowerWindowDays) * 24 * time.Hour
	return s
}
