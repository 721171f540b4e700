// Package log provides structured logging for percepgo training runs.
//
// The package defines a minimal Logger interface backed by zerolog, so that
// typed errors and warnings from pkg/errors can marshal themselves into log
// events. Libraries embedding percepgo may supply their own implementation;
// the default is a no-op logger, so an unconfigured model never writes to
// the caller's streams.
package log

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is a leveled, structured logger. Fields are alternating key/value
// pairs; keys must be strings.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated on
	// every subsequent event.
	With(fields ...any) Logger
}

// New returns a Logger writing console-free JSON lines to w at the given
// zerolog level.
func New(w io.Writer, level zerolog.Level) Logger {
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &zeroLogger{zl: zl}
}

// FromZerolog wraps an existing zerolog.Logger.
func FromZerolog(zl zerolog.Logger) Logger {
	return &zeroLogger{zl: zl}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zeroLogger{zl: zerolog.Nop()}
}

type zeroLogger struct {
	zl zerolog.Logger
}

func (l *zeroLogger) Debug(msg string, fields ...any) { emit(l.zl.Debug(), msg, fields) }
func (l *zeroLogger) Info(msg string, fields ...any)  { emit(l.zl.Info(), msg, fields) }
func (l *zeroLogger) Warn(msg string, fields ...any)  { emit(l.zl.Warn(), msg, fields) }
func (l *zeroLogger) Error(msg string, fields ...any) { emit(l.zl.Error(), msg, fields) }

func (l *zeroLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for k, v := range pairs(fields) {
		ctx = ctx.Interface(k, v)
	}
	return &zeroLogger{zl: ctx.Logger()}
}

func emit(event *zerolog.Event, msg string, fields []any) {
	for k, v := range pairs(fields) {
		switch value := v.(type) {
		case zerolog.LogObjectMarshaler:
			event = event.Object(k, value)
		case error:
			event = event.AnErr(k, value)
		case string:
			event = event.Str(k, value)
		case int:
			event = event.Int(k, value)
		case uint64:
			event = event.Uint64(k, value)
		case float64:
			event = event.Float64(k, value)
		case bool:
			event = event.Bool(k, value)
		default:
			event = event.Interface(k, value)
		}
	}
	event.Msg(msg)
}

// pairs folds a flat key/value list into a map, skipping malformed entries.
func pairs(fields []any) map[string]any {
	out := make(map[string]any, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		out[key] = fields[i+1]
	}
	return out
}
