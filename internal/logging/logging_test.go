package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log json: %v (%s)", err, buf.String())
	}
	return payload
}

func TestRedactingHandler_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("test",
		"secret_key", "1,2,3",
		"sharedKey", "abc",
		"directory_token", "tok",
		"Private", "x",
		"mode", "key-agreement",
	)

	payload := decodeLine(t, &buf)
	for _, key := range []string{"secret_key", "sharedKey", "directory_token", "Private"} {
		if got := payload[key]; got != RedactedValue {
			t.Errorf("%s = %v, want %s", key, got, RedactedValue)
		}
	}
	if got := payload["mode"]; got != "key-agreement" {
		t.Errorf("mode = %v, want untouched", got)
	}
}

func TestRedactingHandler_FingerprintsIdentities(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("test", "identity", "alice@example.com", "peer", "bob@example.com")

	payload := decodeLine(t, &buf)
	id, _ := payload["identity"].(string)
	if !strings.HasPrefix(id, "id_") || strings.Contains(id, "alice") {
		t.Errorf("identity = %q, want fingerprint", id)
	}
	if id != FingerprintIdentity("alice@example.com") {
		t.Errorf("identity fingerprint not stable within the process")
	}
	if payload["peer"] == id {
		t.Error("distinct identities share a fingerprint")
	}
}

func TestRedactingHandler_WithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil))).
		With("token", "tok-abc-123").
		With(slog.Group("req", "identity", "carol", "path", "/x"))

	logger.Info("msg")

	out := buf.String()
	if strings.Contains(out, "tok-abc-123") || strings.Contains(out, "carol") {
		t.Errorf("log leaked sensitive value: %s", out)
	}
	if !strings.Contains(out, `"path":"/x"`) {
		t.Errorf("group attribute lost: %s", out)
	}
}

func TestRedactingHandler_HandlerContract(t *testing.T) {
	var buf bytes.Buffer
	h := WrapHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled(Info) = true, want false below configured level")
	}
	rec := slog.NewRecord(time.Now(), slog.LevelWarn, "msg", 0)
	rec.AddAttrs(slog.String("secret", "s"))
	if err := h.Handle(context.Background(), rec); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !strings.Contains(buf.String(), RedactedValue) {
		t.Errorf("expected redaction, got %s", buf.String())
	}
}

func TestWrapHandler_Idempotent(t *testing.T) {
	h := WrapHandler(slog.NewTextHandler(&bytes.Buffer{}, nil))
	if WrapHandler(h) != h {
		t.Error("WrapHandler wrapped an already redacting handler")
	}
	if WrapHandler(nil) != nil {
		t.Error("WrapHandler(nil) != nil")
	}
}

func TestWrap_NilLogger(t *testing.T) {
	logger := Wrap(nil)
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("nil logger should discard")
	}
}

func TestFingerprintIdentity_Empty(t *testing.T) {
	if got := FingerprintIdentity(""); got != "" {
		t.Errorf("FingerprintIdentity(\"\") = %q, want empty", got)
	}
}

func TestNew_Formats(t *testing.T) {
	var text, js bytes.Buffer
	New(&text, Options{Level: slog.LevelDebug}).Debug("hello", "secret", "x")
	New(&js, Options{JSON: true}).Info("hello")

	if !strings.Contains(text.String(), "secret="+RedactedValue) {
		t.Errorf("text output = %q", text.String())
	}
	if !strings.HasPrefix(js.String(), "{") {
		t.Errorf("json output = %q", js.String())
	}
}
