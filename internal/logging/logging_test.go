package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectLevel(t *testing.T) {
	tests := []struct {
		opts Options
		want zerolog.Level
	}{
		{Options{}, zerolog.InfoLevel},
		{Options{Level: "warn"}, zerolog.WarnLevel},
		{Options{Level: "error", Verbose: true}, zerolog.DebugLevel},
		{Options{Quiet: true}, zerolog.WarnLevel},
	}
	for _, tt := range tests {
		got, err := selectLevel(tt.opts)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := selectLevel(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestNew_WritesJSONToConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := newWithConsole(Options{Level: "info"}, &buf)
	require.NoError(t, err)
	defer l.Close()

	l.Debug().Msg("hidden")
	l.Info().Str("program_id", "p1").Msg("planned week")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "planned week", entry["message"])
	assert.Equal(t, "p1", entry["program_id"])
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "velo.log")
	var buf bytes.Buffer
	l, err := newWithConsole(Options{File: path, MaxSizeMB: 1}, &buf)
	require.NoError(t, err)

	l.Warn().Msg("resync failed")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "resync failed")
	assert.Contains(t, buf.String(), "resync failed")
}
