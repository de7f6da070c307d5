package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	l := New(&Config{Level: "info", Format: FormatConsole, Output: "stderr"}, "test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "invalid-level", Format: "json"}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	if l := NewFromEnv("env-svc"); l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestGetGlobalLoggerFallsBackToEnv(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() { globalLogger = prev })
	globalLogger = nil
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")

	gl := GetGlobalLogger()
	if gl.logger.GetLevel() != zerolog.ErrorLevel {
		t.Errorf("expected level from LOG_LEVEL, got %s", gl.logger.GetLevel())
	}
}

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: "json"}, "speechkit", &buf)

	l.WithComponent("siliconflow").Warn("empty transcription", Fields("path", "/tmp/a.wav"))

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("expected one JSON event, got %q: %v", buf.String(), err)
	}
	if event["level"] != "warn" {
		t.Errorf("expected level warn, got %v", event["level"])
	}
	if event["message"] != "empty transcription" {
		t.Errorf("unexpected message %v", event["message"])
	}
	if event[FieldComponent] != "siliconflow" {
		t.Errorf("expected component field, got %v", event[FieldComponent])
	}
	if event["path"] != "/tmp/a.wav" {
		t.Errorf("expected path field, got %v", event["path"])
	}
	if event["service"] != "speechkit" {
		t.Errorf("expected service field, got %v", event["service"])
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "error", Format: "json"}, "svc", &buf)

	l.Info("dropped")
	l.Warn("dropped too")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below error level, got %q", buf.String())
	}

	l.Error("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected error event, got %q", buf.String())
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "svc", &buf)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithTask(ctx, "audio-to-text")
	l.WithContext(ctx).Info("run")

	if !strings.Contains(buf.String(), `"request_id":"req-1"`) {
		t.Errorf("expected request_id in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"task":"audio-to-text"`) {
		t.Errorf("expected task in output, got %q", buf.String())
	}
	if RequestIDFromContext(ctx) != "req-1" {
		t.Errorf("expected request id round-trip")
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "svc", &buf)
	l.WithError(errors.New("boom")).Error("failed")
	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Errorf("expected error field, got %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	// must not panic
	Nop().Warn("ignored", Fields("k", "v"))
}

func TestInit(t *testing.T) {
	Init(Config{Level: "info", Format: "console", ServiceName: "speechkit"})
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	if gl.service != "speechkit" {
		t.Errorf("expected service from config, got %q", gl.service)
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := New(&Config{Level: "info", Format: "json"}, "custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
	if Named("x") == nil {
		t.Error("expected Named to return a logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	f := Fields("a", 1, "b", "two", "dangling")
	if len(f) != 2 || f["a"] != 1 || f["b"] != "two" {
		t.Errorf("unexpected fields %v", f)
	}

	ef := ErrorFields("transcribe", errors.New("x"))
	if ef[FieldOperation] != "transcribe" || ef[FieldError] != "x" {
		t.Errorf("unexpected error fields %v", ef)
	}

	df := DurationFields("transcribe", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("unexpected duration %v", df[FieldDuration])
	}

	merged := MergeWithError(nil, errors.New("y"))
	if merged[FieldError] != "y" {
		t.Errorf("unexpected merged %v", merged)
	}
}

func TestOutputWriter(t *testing.T) {
	if outputWriter("stdout") != os.Stdout {
		t.Error("expected stdout")
	}
	if outputWriter("anything") != os.Stderr {
		t.Error("expected stderr fallback")
	}
}
