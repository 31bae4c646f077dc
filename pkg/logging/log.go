// Package logging holds the logger shared by the visgraph packages.
//
// Libraries never construct their own logger; they ask for a prefixed child of
// the package logger with For, so the host application decides output and
// level once with SetLogger or EnableDebug.
package logging

import (
	"context"
	"io"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var std atomic.Pointer[log.Logger]

func init() {
	std.Store(New(os.Stderr, log.InfoLevel))
}

// New creates a logger writing to w at the given level, with short
// timestamps ("15:04:05.00").
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// L returns the package logger.
func L() *log.Logger {
	return std.Load()
}

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	std.Store(l)
}

// EnableDebug lowers the package logger to debug level.
func EnableDebug() {
	L().SetLevel(log.DebugLevel)
}

// For returns a child logger prefixed with the component name.
func For(component string) *log.Logger {
	return L().WithPrefix(component)
}

type ctxKey struct{}

// WithLogger attaches l to ctx.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached to ctx, or the package logger.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok && l != nil {
			return l
		}
	}
	return L()
}
