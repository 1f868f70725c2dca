// Package logging builds the zerolog logger shared by the CLI, the API
// server and background jobs.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects level and sinks.
type Options struct {
	Level      string
	File       string // empty disables the rotating file sink
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Verbose    bool
	Quiet      bool
}

// Logger bundles the logger with the file sink it may own.
type Logger struct {
	zerolog.Logger
	file io.WriteCloser
}

// Close releases the file sink, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// New creates a logger writing to stderr, plus a rotating file when
// opts.File is set. Stderr gets a console writer when it is a terminal and
// NO_COLOR is unset, JSON otherwise.
func New(opts Options) (*Logger, error) {
	return newWithConsole(opts, selectConsole(os.Stderr))
}

func newWithConsole(opts Options, console io.Writer) (*Logger, error) {
	level, err := selectLevel(opts)
	if err != nil {
		return nil, err
	}

	out := &Logger{}
	writer := console
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		out.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		writer = zerolog.MultiLevelWriter(console, out.file)
	}
	out.Logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return out, nil
}

func selectLevel(opts Options) (zerolog.Level, error) {
	switch {
	case opts.Verbose:
		return zerolog.DebugLevel, nil
	case opts.Quiet:
		return zerolog.WarnLevel, nil
	case opts.Level == "":
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parsing log level %q: %w", opts.Level, err)
	}
	return level, nil
}

func selectConsole(f *os.File) io.Writer {
	if IsTerminal(f) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	return f
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
