package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Level  string
	Format string // json or console
	File   string
	MaxAge time.Duration
}

type ctxKey struct{}

// Init configures the global zerolog logger. When File is set, output is
// teed into a daily rotated file next to stdout.
func Init(opts Options) (io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var console io.Writer = os.Stdout
	if opts.Format == "console" {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	var closer io.Closer = nopCloser{}
	writer := console
	if opts.File != "" {
		maxAge := opts.MaxAge
		if maxAge <= 0 {
			maxAge = 7 * 24 * time.Hour
		}
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir failed: %w", err)
		}
		rotator, err := rotatelogs.New(
			opts.File+".%Y%m%d",
			rotatelogs.WithLinkName(opts.File),
			rotatelogs.WithMaxAge(maxAge),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			return nil, fmt.Errorf("open rotate log failed: %w", err)
		}
		writer = zerolog.MultiLevelWriter(console, rotator)
		closer = rotator
	}

	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	return closer, nil
}

// WithContext stores l in ctx so downstream code logs with the same fields.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, or the global one.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
			return &l
		}
	}
	return &log.Logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
