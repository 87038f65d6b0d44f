package log

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	ekerrors "github.com/YuminosukeSato/edakit/pkg/errors"
)

type zeroLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger returns a Logger writing to w. When console is true the
// output is human readable, otherwise one JSON object per line.
func NewZerologLogger(w io.Writer, level Level, console bool) Logger {
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &zeroLogger{zl: zl}
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (z *zeroLogger) Debug(msg string, fields ...any) { z.emit(z.zl.Debug(), msg, fields) }
func (z *zeroLogger) Info(msg string, fields ...any)  { z.emit(z.zl.Info(), msg, fields) }
func (z *zeroLogger) Warn(msg string, fields ...any)  { z.emit(z.zl.Warn(), msg, fields) }

func (z *zeroLogger) Error(msg string, fields ...any) {
	ev := z.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = withError(ev, err)
			fields = fields[1:]
		}
	}
	z.emit(ev, msg, fields)
}

func (z *zeroLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	if len(fields) > 1 {
		ev = ev.Fields(fields)
	}
	ev.Msg(msg)
}

func (z *zeroLogger) With(fields ...any) Logger {
	return &zeroLogger{zl: z.zl.With().Fields(fields).Logger()}
}

func (z *zeroLogger) Enabled(_ context.Context, level Level) bool {
	return z.zl.GetLevel() <= toZerologLevel(level)
}

// withError attaches err, the structured detail of any typed edakit error in
// its chain, and the stack recorded by cockroachdb/errors.
func withError(ev *zerolog.Event, err error) *zerolog.Event {
	ev = ev.Err(err)
	var m zerolog.LogObjectMarshaler
	if errors.As(err, &m) {
		ev = ev.Object("detail", m)
	}
	if st := extractStacktrace(err); st != "" {
		ev = ev.Str(StacktraceKey, st)
	}
	return ev
}

var (
	globalMu     sync.RWMutex
	globalLogger = NewZerologLogger(os.Stderr, LevelInfo, true)
)

// GetLogger returns the process-wide logger.
func GetLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// GetLoggerWithName returns the process-wide logger tagged with a component.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

// SetLogger replaces the process-wide logger and routes edakit warnings to it.
func SetLogger(l Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
	InstallWarnHook(l)
}

// InstallWarnHook routes errors.Warn through l at warn level.
func InstallWarnHook(l Logger) {
	ekerrors.SetZerologWarnFunc(func(w error) {
		fields := []any{"warning", w.Error()}
		if zl, ok := l.(*zeroLogger); ok {
			if m, ok := w.(zerolog.LogObjectMarshaler); ok {
				zl.zl.Warn().Object("detail", m).Msg("edakit warning")
				return
			}
		}
		l.Warn("edakit warning", fields...)
	})
}
