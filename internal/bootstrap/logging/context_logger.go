// Package logging scopes a slog logger and a set of attrs to a context.
// Attrs accumulate down the call tree; a later attr with the same key
// replaces the earlier one.
package logging

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

type loggerKey struct{}
type attrsKey struct{}

var (
	fallback     *slog.Logger
	fallbackOnce sync.Once
)

// WithLogger binds logger to the context. A nil logger is ignored.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithAttrs appends attrs to the context scope.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(attrs) == 0 {
		return ctx
	}
	return context.WithValue(ctx, attrsKey{}, merge(Attrs(ctx), attrs))
}

// Logger returns the context-bound logger, or a stderr text logger.
func Logger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}

	fallbackOnce.Do(func() {
		fallback = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	})
	return fallback
}

// Attrs returns a copy of the attrs accumulated on the context.
func Attrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	attrs, ok := ctx.Value(attrsKey{}).([]slog.Attr)
	if !ok || len(attrs) == 0 {
		return nil
	}

	out := make([]slog.Attr, len(attrs))
	copy(out, attrs)
	return out
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelInfo, msg, attrs)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelWarn, msg, attrs)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelError, msg, attrs)
}

func emit(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	Logger(ctx).LogAttrs(ctx, level, msg, merge(Attrs(ctx), attrs)...)
}

// merge copies base then applies extra, replacing entries that share a key.
func merge(base []slog.Attr, extra []slog.Attr) []slog.Attr {
	merged := make([]slog.Attr, 0, len(base)+len(extra))
	index := make(map[string]int, len(base)+len(extra))

	add := func(attr slog.Attr) {
		if attr.Key != "" {
			if at, seen := index[attr.Key]; seen {
				merged[at] = attr
				return
			}
		}
		merged = append(merged, attr)
		if attr.Key != "" {
			index[attr.Key] = len(merged) - 1
		}
	}

	for _, attr := range base {
		add(attr)
	}
	for _, attr := range extra {
		add(attr)
	}
	return merged
}
