package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromPaths_Defaults(t *testing.T) {
	t.Setenv("VELO_HOME", t.TempDir())

	cfg, err := LoadFromPaths(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 0.10, cfg.Planning.MaxRampPct)
	assert.Equal(t, 7, cfg.Planning.MaxSessions)
	assert.Equal(t, 2*time.Minute, cfg.Generator.Timeout)
	assert.Equal(t, 20*time.Second, cfg.Knowledge.Timeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "velo.db", filepath.Base(cfg.DB.Path))
}

func TestLoadFromPaths_ProjectOverridesGlobal(t *testing.T) {
	t.Setenv("VELO_HOME", t.TempDir())
	global := writeConfig(t, t.TempDir(), `
log:
  level: debug
generator:
  model: mistral
  timeout: 45s
`)
	project := writeConfig(t, t.TempDir(), `
generator:
  model: llama3.1
planning:
  max_sessions: 6
`)

	cfg, err := LoadFromPaths(context.Background(), global, project)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "llama3.1", cfg.Generator.Model)
	assert.Equal(t, 45*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, 6, cfg.Planning.MaxSessions)
}

func TestLoadFromPaths_EnvOverridesFiles(t *testing.T) {
	t.Setenv("VELO_HOME", t.TempDir())
	t.Setenv("VELO_DB_PATH", ":memory:")
	t.Setenv("VELO_SYNC_WORKERS", "8")
	t.Setenv("VELO_CACHE_TTL", "5m")
	project := writeConfig(t, t.TempDir(), "sync:\n  workers: 2\n")

	cfg, err := LoadFromPaths(context.Background(), "", project)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DB.Path)
	assert.Equal(t, 8, cfg.Sync.Workers)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoadFromPaths_InvalidFile(t *testing.T) {
	t.Setenv("VELO_HOME", t.TempDir())
	bad := writeConfig(t, t.TempDir(), "log: [unterminated\n")

	_, err := LoadFromPaths(context.Background(), bad, "")
	assert.Error(t, err)
}

func TestLoadFromPaths_ValidationFailure(t *testing.T) {
	t.Setenv("VELO_HOME", t.TempDir())
	project := writeConfig(t, t.TempDir(), "planning:\n  max_ramp_pct: 0.8\n")

	_, err := LoadFromPaths(context.Background(), "", project)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max ramp pct")
}

func TestConfig_ServiceMapping(t *testing.T) {
	t.Setenv("VELO_HOME", t.TempDir())
	project := writeConfig(t, t.TempDir(), `
planning:
  stress_per_hour: 60
  max_duration_min: 150
generator:
  tolerance: 0.2
sync:
  timeout: 30s
  power_window_days: 60
`)
	cfg, err := LoadFromPaths(context.Background(), "", project)
	require.NoError(t, err)

	svc := cfg.Service()
	assert.Equal(t, 60.0, svc.Macro.StressPerHour)
	assert.Equal(t, 150, svc.WeekPlan.MaxDurationMin)
	assert.Equal(t, 0.2, svc.Tolerance)
	assert.Equal(t, 30*time.Second, svc.ResyncTimeout)
	assert.Equal(t, 60*24*time.Hour, svc.PowerWindow)
	assert.Equal(t, 5, svc.FeedbackSize)
}
