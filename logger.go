package router

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var LoggerEnabled = false

// Logger receives a message followed by alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type defaultLogger struct {
}

func (d *defaultLogger) Debug(msg string, args ...any) {
	if LoggerEnabled {
		fmt.Println("[DEBUG] " + msg + formatArgs(args))
	}
}

func (d *defaultLogger) Info(msg string, args ...any) {
	if LoggerEnabled {
		fmt.Println("[INFO] " + msg + formatArgs(args))
	}
}

func (d *defaultLogger) Warn(msg string, args ...any) {
	if LoggerEnabled {
		fmt.Println("[WARN] " + msg + formatArgs(args))
	}
}

func (d *defaultLogger) Error(msg string, args ...any) {
	if LoggerEnabled {
		fmt.Println("[ERROR] " + msg + formatArgs(args))
	}
}

func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(args); i += 2 {
		b.WriteByte(' ')
		if i+1 < len(args) {
			fmt.Fprintf(&b, "%v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, "%v", args[i])
		}
	}
	return b.String()
}

type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger adapts a zap logger. A nil logger yields a no-op logger.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLogger{s: l.Sugar()}
}

func (z *zapLogger) Debug(msg string, args ...any) { z.s.Debugw(msg, args...) }
func (z *zapLogger) Info(msg string, args ...any)  { z.s.Infow(msg, args...) }
func (z *zapLogger) Warn(msg string, args ...any)  { z.s.Warnw(msg, args...) }
func (z *zapLogger) Error(msg string, args ...any) { z.s.Errorw(msg, args...) }
