// Package logging configures slog and carries the logger through contexts.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/lmittmann/tint"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
)

var ErrUnknownFormat = errors.Base("unknown log format")

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, errors.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// NewHandler builds the handler for format: tint (coloured console), json
// or text.
func NewHandler(w io.Writer, level slog.Level, format string, color bool) (slog.Handler, error) {
	switch format {
	case "tint", "":
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: "2006-01-02 15:04 05.0000",
			NoColor:    !color,
		}), nil
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}), nil
	case "text":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}), nil
	}
	return nil, errors.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Setup installs a context-aware default logger and returns ctx carrying it.
func Setup(ctx context.Context, w io.Writer, level, format string, color bool) (context.Context, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return ctx, err
	}
	h, err := NewHandler(w, lvl, format, color)
	if err != nil {
		return ctx, err
	}

	logger := slog.New(slogctx.NewHandler(h, &slogctx.HandlerOptions{}))
	slog.SetDefault(logger)
	return slogctx.NewCtx(ctx, logger), nil
}

// With adds attributes to every record logged with the returned context,
// including through the package-level slog functions.
func With(ctx context.Context, args ...any) context.Context {
	return slogctx.Append(ctx, args...)
}

// FromCtx returns the logger carried by ctx, or the default logger.
func FromCtx(ctx context.Context) *slog.Logger {
	return slogctx.FromCtx(ctx)
}
