// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// DefaultPrefix is the prefix printed before every record.
const DefaultPrefix = "minipack"

type (
	// Options configures a logger built by New.
	Options struct {
		// Verbose lowers the level to debug.
		Verbose bool
		// Prefix overrides DefaultPrefix. Use "-" to print no prefix.
		Prefix string
		// ReportTimestamp prints a timestamp on every record.
		ReportTimestamp bool
	}

	ctxKey struct{}
)

// New returns a logger writing human-readable records to w.
func New(w io.Writer, opts Options) *slog.Logger {
	prefix := opts.Prefix
	switch prefix {
	case "":
		prefix = DefaultPrefix
	case "-":
		prefix = ""
	}

	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}

	handler := log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: opts.ReportTimestamp,
	})
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored by WithLogger, or a discarding
// logger when ctx carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return Discard()
}
