// Package logging builds the process logger: a console sink chosen by
// terminal capabilities plus a rotating file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/dayplan/internal/constants"
)

//nolint:gochecknoglobals // One-time configuration of zerolog field names
var configureOnce sync.Once

// configureGlobals sets the zerolog field names used in the log file.
func configureGlobals() {
	configureOnce.Do(func() {
		zerolog.TimestampFieldName = "ts"
		zerolog.MessageFieldName = "event"
	})
}

// Options configures New.
type Options struct {
	Verbose bool
	Quiet   bool

	// Dir receives dayplan.log. Empty disables the file sink.
	Dir string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Console overrides the console sink, mostly for tests.
	Console io.Writer
}

// Logger is a configured logger and the file sink to close on shutdown.
type Logger struct {
	zerolog.Logger

	file io.WriteCloser
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// New creates a logger.
//
// Levels:
//   - verbose: debug
//   - quiet: warn
//   - default: info
//
// The console sink is a ConsoleWriter on a TTY without NO_COLOR, JSON on
// stderr otherwise. A file that cannot be opened is reported but leaves the
// console logger usable.
func New(opts Options) (*Logger, error) {
	configureGlobals()

	console := opts.Console
	if console == nil {
		console = selectOutput()
	}

	var (
		writer  io.Writer = console
		file    io.WriteCloser
		fileErr error
	)
	if opts.Dir != "" {
		file, fileErr = newFileWriter(opts)
		if fileErr == nil {
			writer = zerolog.MultiLevelWriter(console, file)
		}
	}

	logger := zerolog.New(writer).Level(SelectLevel(opts.Verbose, opts.Quiet)).With().Timestamp().Logger()
	log.Logger = logger

	return &Logger{Logger: logger, file: file}, fileErr
}

// SelectLevel maps the verbosity flags to a level.
func SelectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" { //nolint:gosec // fd fits in int
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

func newFileWriter(opts Options) (io.WriteCloser, error) {
	if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, constants.CLILogFileName),
		MaxSize:    orDefault(opts.MaxSizeMB, constants.LogMaxSizeMB),
		MaxBackups: orDefault(opts.MaxBackups, constants.LogMaxBackups),
		MaxAge:     orDefault(opts.MaxAgeDays, constants.LogMaxAgeDays),
		Compress:   opts.Compress,
	}, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
