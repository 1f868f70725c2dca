package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	t.Setenv("VELO_HOME", t.TempDir())
	cfg, err := LoadFromPaths(context.Background(), "", "")
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty db path", func(c *Config) { c.DB.Path = "" }, "db.path"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"sessions inverted", func(c *Config) { c.Planning.MinSessions = 6; c.Planning.MaxSessions = 4 }, "planning"},
		{"tolerance", func(c *Config) { c.Generator.Tolerance = 1.5 }, "generator.tolerance"},
		{"generator without model", func(c *Config) { c.Generator.Enabled = true; c.Generator.Model = "" }, "generator.endpoint"},
		{"knowledge score", func(c *Config) { c.Knowledge.MinScore = 2 }, "knowledge.min_score"},
		{"workers", func(c *Config) { c.Sync.Workers = 0 }, "sync.workers"},
		{"power window", func(c *Config) { c.Sync.PowerWindowDays = 0 }, "sync.power_window_days"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -1 }, "cache.ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.ErrorIs(t, Validate(nil), ErrConfigNil)
}
