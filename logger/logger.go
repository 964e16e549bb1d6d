// Package logger holds the process-wide logrus logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger. It writes warnings and above to stderr until
// Init is called, so tests and library users stay quiet by default.
var Log = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Config selects the log level, format and destination.
type Config struct {
	Level  string `yaml:"level"`  // panic..trace; default "warn"
	Format string `yaml:"format"` // "text" or "json"
	// File is a path to append to. "-" discards output, empty means stderr.
	File string `yaml:"file"`
}

// Init configures Log from cfg. LOG_LEVEL and LOG_FORMAT in the environment
// override the corresponding fields. The returned closer releases the log
// file, if one was opened.
func Init(cfg Config) (io.Closer, error) {
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.Level = v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok {
		cfg.Format = v
	}

	level := logrus.WarnLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		level = parsed
	}
	Log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		Log.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}

	switch cfg.File {
	case "":
		Log.SetOutput(os.Stderr)
	case "-":
		Log.SetOutput(io.Discard)
	default:
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		Log.SetOutput(f)
		return f, nil
	}
	return nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
