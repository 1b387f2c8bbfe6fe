// Package logging builds slog loggers that never print key material.
//
// [WrapHandler] redacts attributes whose key names a secret and replaces
// identity attributes with a salted base58 fingerprint. The salt is chosen
// once per process, so fingerprints correlate log lines of one run without
// revealing the identity.
package logging

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mr-tron/base58"
)

// RedactedValue replaces the value of a sensitive attribute.
const RedactedValue = "[REDACTED]"

var (
	processSalt = newSalt()

	sensitiveKeyParts = []string{"secret", "private", "shared", "token", "password", "authorization"}

	identityKeys = map[string]struct{}{
		"identity": {},
		"peer":     {},
		"from":     {},
		"to":       {},
	}
)

// RedactingHandler is a slog.Handler that sanitizes attributes before
// passing records to the next handler.
type RedactingHandler struct {
	next slog.Handler
}

// WrapHandler wraps next. It returns nil for a nil handler and does not
// wrap a handler twice.
func WrapHandler(next slog.Handler) slog.Handler {
	if next == nil {
		return nil
	}
	if _, ok := next.(*RedactingHandler); ok {
		return next
	}
	return &RedactingHandler{next: next}
}

// Wrap returns a logger whose handler is wrapped with [WrapHandler].
// A nil logger yields a logger that discards everything.
func Wrap(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(WrapHandler(logger.Handler()))
}

func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RedactingHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(SanitizeAttr(attr))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		clean = append(clean, SanitizeAttr(attr))
	}
	return &RedactingHandler{next: h.next.WithAttrs(clean)}
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

// SanitizeAttr redacts or fingerprints a single attribute, descending into
// groups.
func SanitizeAttr(attr slog.Attr) slog.Attr {
	lowerKey := strings.ToLower(strings.TrimSpace(attr.Key))
	switch {
	case isSensitiveKey(lowerKey):
		return slog.String(attr.Key, RedactedValue)
	case isIdentityKey(lowerKey):
		return slog.String(attr.Key, FingerprintIdentity(valueString(attr.Value)))
	}

	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		clean := make([]any, 0, len(group))
		for _, a := range group {
			clean = append(clean, SanitizeAttr(a))
		}
		return slog.Group(attr.Key, clean...)
	}
	return attr
}

// FingerprintIdentity returns a short salted fingerprint of identity, or ""
// for an empty identity.
func FingerprintIdentity(identity string) string {
	if identity == "" {
		return ""
	}
	h := sha256.New()
	h.Write(processSalt)
	h.Write([]byte(identity))
	return "id_" + base58.Encode(h.Sum(nil)[:8])
}

// Options configures [New].
type Options struct {
	Level slog.Level
	// JSON selects the JSON handler instead of the text handler.
	JSON bool
}

// New builds a redacting logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(WrapHandler(h))
}

func isSensitiveKey(lowerKey string) bool {
	for _, part := range sensitiveKeyParts {
		if strings.Contains(lowerKey, part) {
			return true
		}
	}
	return false
}

func isIdentityKey(lowerKey string) bool {
	_, ok := identityKeys[lowerKey]
	return ok
}

func valueString(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindString {
		return v.String()
	}
	return fmt.Sprint(v.Any())
}

func newSalt() []byte {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		panic(fmt.Sprintf("logging: read salt: %v", err))
	}
	return salt
}
