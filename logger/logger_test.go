package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newJSON(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := New(&Config{Level: level, Format: FormatJSON, Writer: &buf}, "test-svc")
	return l, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line, got nothing")
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid json log line %q: %v", line, err)
	}
	return m
}

func TestNew_JSONFields(t *testing.T) {
	l, buf := newJSON(t, "debug")
	l.WithComponent("rx").Info("request started", Fields(FieldRequestID, "abc", "bytes", 12))

	m := decodeLine(t, buf)
	if m["message"] != "request started" {
		t.Errorf("unexpected message %v", m["message"])
	}
	if m[FieldComponent] != "rx" {
		t.Errorf("expected component=rx, got %v", m[FieldComponent])
	}
	if m[FieldRequestID] != "abc" {
		t.Errorf("expected request_id=abc, got %v", m[FieldRequestID])
	}
	if m["service"] != "test-svc" {
		t.Errorf("expected service field, got %v", m["service"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	l, buf := newJSON(t, "warn")
	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn line, got %q", buf.String())
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := newJSON(t, "nope")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered, got %q", buf.String())
	}
	l.Info("shown")
	if buf.Len() == 0 {
		t.Error("expected info line")
	}
}

func TestWithError(t *testing.T) {
	l, buf := newJSON(t, "info")
	l.WithError(errors.New("boom")).Error("failed")
	m := decodeLine(t, buf)
	if m["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", m["error"])
	}
}

func TestWithContext(t *testing.T) {
	l, buf := newJSON(t, "info")
	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.WithContext(ctx).Info("hello")
	m := decodeLine(t, buf)
	if m[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id from context, got %v", m[FieldRequestID])
	}
}

func TestWithFields(t *testing.T) {
	l, buf := newJSON(t, "info")
	l.WithFields(map[string]interface{}{"k": "v"}).Info("x")
	m := decodeLine(t, buf)
	if m["k"] != "v" {
		t.Errorf("expected k=v, got %v", m["k"])
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("discarded")
	l.WithComponent("x").Error("discarded")
}

func TestGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: FormatJSON, Writer: &buf}, "global")
	defer SetGlobalLogger(nil)

	Info("from global")
	if !strings.Contains(buf.String(), "from global") {
		t.Errorf("expected global output, got %q", buf.String())
	}
	buf.Reset()
	WithComponent("c").Warn("tagged")
	if !strings.Contains(buf.String(), `"component":"c"`) {
		t.Errorf("expected component tag, got %q", buf.String())
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	SetGlobalLogger(nil)
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger")
	}
	SetGlobalLogger(nil)
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stdout" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "debug", Format: "json"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored-key-not-string", "dangling")
	if len(m) != 2 || m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields %v", m)
	}
	ef := ErrorFields("upload", errors.New("x"))
	if ef[FieldOperation] != "upload" || ef[FieldError] != "x" {
		t.Errorf("unexpected error fields %v", ef)
	}
	df := DurationFields("upload", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("unexpected duration fields %v", df)
	}
}
