package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestMultiHandler_FansOut(t *testing.T) {
	var text, jsonBuf bytes.Buffer
	h := NewMultiHandler(
		NewHandler(&text, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&jsonBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		nil,
	)
	logger := slog.New(h).With("channel", "stable")

	logger.Info("Installing target")
	logger.Warn("Detected a broken toolchain, uninstalling it")

	if strings.Contains(text.String(), "Installing target") {
		t.Errorf("text handler at Warn should drop Info: %q", text.String())
	}
	if !strings.Contains(text.String(), "broken toolchain") {
		t.Errorf("text handler missing Warn record: %q", text.String())
	}

	lines := strings.Split(strings.TrimSpace(jsonBuf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("json handler got %d records, want 2: %q", len(lines), jsonBuf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if rec["channel"] != "stable" {
		t.Errorf("channel = %v, want stable", rec["channel"])
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	h := NewMultiHandler(
		NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
		NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	if !h.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("expected Info enabled through second handler")
	}
	if h.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("expected Debug disabled on all handlers")
	}
}
