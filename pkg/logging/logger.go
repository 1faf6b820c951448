// Package logging provides structured logging for the breakout arena runner.
// It wraps slog with JSON output and tags entries with the run and arena
// ids carried in the context.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
)

// Logger wraps slog.Logger with context-aware helpers
type Logger struct {
	*slog.Logger
}

// LevelEnvVar selects the minimum log level: DEBUG, INFO, WARN or ERROR.
const LevelEnvVar = "BREAKOUT_LOG_LEVEL"

// NewLogger creates a Logger writing JSON to stderr at the level named by
// BREAKOUT_LOG_LEVEL. Defaults to INFO.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stderr)
}

// NewLoggerTo creates a Logger writing JSON to w
func NewLoggerTo(w io.Writer) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       levelFromEnv(),
		ReplaceAttr: finiteFloats,
	})
	return &Logger{slog.New(handler)}
}

// LogWithContext logs msg, appending the run and arena ids found in ctx
func (l *Logger) LogWithContext(ctx context.Context, level slog.Level, msg string, args ...any) {
	if run := GetRunID(ctx); run != "" {
		args = append(args, "run_id", run)
	}
	if arena, ok := GetArenaID(ctx); ok {
		args = append(args, "arena_id", arena)
	}
	l.Log(ctx, level, msg, args...)
}

// Info logs at INFO
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs at WARN
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelWarn, msg, args...)
}

// Error logs at ERROR. A nil err is omitted.
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.LogWithContext(ctx, slog.LevelError, msg, args...)
}

// Debug logs at DEBUG
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelDebug, msg, args...)
}

type runIDKey struct{}

// WithRunID tags ctx with the id of a batch run. An empty id is replaced
// by a random one.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewRunID()
	}
	return context.WithValue(ctx, runIDKey{}, id)
}

// GetRunID returns the run id in ctx, or ""
func GetRunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

type arenaIDKey struct{}

// WithArenaID tags the context with the index of the arena being stepped
func WithArenaID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, arenaIDKey{}, id)
}

// GetArenaID extracts the arena id from the context
func GetArenaID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(arenaIDKey{}).(int)
	return id, ok
}

// NewRunID returns 8 random bytes as hex
func NewRunID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func levelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv(LevelEnvVar)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// finiteFloats renders NaN and infinities as strings. JSON has no
// encoding for them and degenerate geometry can produce them.
func finiteFloats(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindFloat64 {
		return a
	}
	if f := a.Value.Float64(); math.IsNaN(f) || math.IsInf(f, 0) {
		return slog.String(a.Key, fmt.Sprint(f))
	}
	return a
}

// WrapError prefixes err with a formatted context message. A nil err
// stays nil.
func WrapError(err error, context string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		context = fmt.Sprintf(context, args...)
	}
	return fmt.Errorf("%s: %w", context, err)
}
