// Package logging builds the slog logger used by the CLI and the converter.
//
// Records pass through a SanitizingHandler, which redacts values stored
// under sensitive keys before they reach the text handler.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Redacted replaces sensitive values in log output.
const Redacted = "[redacted]"

// Verbosity selects the minimum level written.
type Verbosity int

const (
	Normal  Verbosity = iota // warnings and errors
	Quiet                    // errors only
	Verbose                  // everything, including debug
)

func (v Verbosity) level() slog.Level {
	switch v {
	case Quiet:
		return slog.LevelError
	case Verbose:
		return slog.LevelDebug
	default:
		return slog.LevelWarn
	}
}

// New returns a text logger on w wrapped in a SanitizingHandler.
func New(w io.Writer, v Verbosity) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: v.level()})
	return slog.New(NewSanitizingHandler(h))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "authorization", "api_key", "apikey", "cookie",
}

// SanitizingHandler wraps another handler and redacts attributes whose key
// names a credential. Groups are walked recursively.
type SanitizingHandler struct {
	next slog.Handler
}

func NewSanitizingHandler(next slog.Handler) *SanitizingHandler {
	return &SanitizingHandler{next: next}
}

func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SanitizingHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(sanitize(a))
		return true
	})
	return h.next.Handle(ctx, clean)
}

func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = sanitize(a)
	}
	return &SanitizingHandler{next: h.next.WithAttrs(clean)}
}

func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{next: h.next.WithGroup(name)}
}

func sanitize(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]slog.Attr, len(group))
		for i, g := range group {
			clean[i] = sanitize(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, Redacted)
	}
	return a
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}
