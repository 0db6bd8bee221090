package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LogConfig captures options for building the application logger.
type LogConfig struct {
	Path    string // log file; empty discards all output
	Level   string // "debug", "info", etc.; unknown values fall back to info
	Service string // attached to every entry
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds a zerolog logger writing JSON lines to cfg.Path. The
// terminal belongs to the UI, so there is no console fallback. Each call
// gets a fresh session id. The returned Closer releases the log file.
func NewLogger(cfg LogConfig) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil && parsed != zerolog.NoLevel {
			level = parsed
		}
	}
	zerolog.TimeFieldFormat = time.RFC3339

	var (
		w      io.Writer = io.Discard
		closer io.Closer = nopCloser{}
	)
	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("opening log file %s: %w", cfg.Path, err)
		}
		w, closer = f, f
	}

	service := cfg.Service
	if service == "" {
		service = "embedview"
	}

	l := zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", service).
		Str("session", uuid.NewString()).
		Logger()
	return l, closer, nil
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}
