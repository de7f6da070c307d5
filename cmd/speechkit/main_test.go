package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfigFile(t *testing.T, dir, baseURL string) string {
	t.Helper()
	return writeFile(t, dir, "config.yml", `name: speechkit
logging:
  level: error
  format: json
siliconflow:
  base_url: `+baseURL+`
  timeout: 5s
`)
}

func TestRunAudioToText(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-cli" {
			t.Errorf("unexpected auth %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hello"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	audio := writeFile(t, dir, "clip.wav", "RIFF")
	paramsJSON, _ := json.Marshal(map[string]any{"audio": audio, "api_key": "sk-cli"})
	params := writeFile(t, dir, "params.json", string(paramsJSON))
	cfg := testConfigFile(t, dir, srv.URL)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"--config", cfg, "run", "audio-to-text", "--params", params},
		strings.NewReader(""), &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}

	var out taskOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("decode stdout: %v (%s)", err, stdout.String())
	}
	if out.Result["text"] != "hello" {
		t.Errorf("unexpected result %v", out.Result)
	}
	if len(out.Previews) != 1 || out.Previews[0].Data != "hello" {
		t.Errorf("unexpected previews %+v", out.Previews)
	}
	if calls.Load() != 1 {
		t.Errorf("expected one remote call, got %d", calls.Load())
	}
}

func TestRunParamsFromStdin(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := testConfigFile(t, dir, srv.URL)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"--config", cfg, "run", "audio-to-text", "-p", "-"},
		strings.NewReader(`{"audio":"clip.wav"}`), &stdout, &stderr)
	if code != exitError {
		t.Fatalf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(stderr.String(), `"INVALID_INPUT"`) || !strings.Contains(stderr.String(), "api_key") {
		t.Errorf("expected INVALID_INPUT for api_key on stderr, got %s", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %s", stdout.String())
	}
	if calls.Load() != 0 {
		t.Errorf("expected no remote call, got %d", calls.Load())
	}
}

func TestRunBadParamsFile(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfigFile(t, dir, "http://127.0.0.1:1")
	params := writeFile(t, dir, "params.json", `not json`)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"--config", cfg, "run", "text-to-audio", "--params", params},
		strings.NewReader(""), &stdout, &stderr)
	if code != exitError {
		t.Fatalf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(stderr.String(), `"params"`) {
		t.Errorf("expected params field in error, got %s", stderr.String())
	}
}

func TestRunUnknownTask(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfigFile(t, dir, "http://127.0.0.1:1")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"--config", cfg, "run", "translate"},
		strings.NewReader(""), &stdout, &stderr)
	if code != exitError {
		t.Fatalf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(stderr.String(), `"NOT_FOUND"`) {
		t.Errorf("expected NOT_FOUND, got %s", stderr.String())
	}
}

func TestTasksCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfigFile(t, dir, "http://127.0.0.1:1")

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"--config", cfg, "tasks"}, nil, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	got := strings.Fields(stdout.String())
	want := []string{"audio-to-text", "image-generation", "speech-to-text", "text-to-audio"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("tasks = %v, want %v", got, want)
	}
}

func TestUsageAndVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		out  string
	}{
		{"version", []string{"--version"}, exitOK, "speechkit dev"},
		{"no command", nil, exitUsage, ""},
		{"unknown command", []string{"fly"}, exitUsage, ""},
		{"run without task", []string{"run"}, exitUsage, ""},
		{"bad flag", []string{"--nope"}, exitUsage, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(context.Background(), tc.args, nil, &stdout, &stderr); code != tc.code {
				t.Fatalf("expected exit %d, got %d (%s)", tc.code, code, stderr.String())
			}
			if tc.out != "" && !strings.HasPrefix(stdout.String(), tc.out) {
				t.Errorf("expected stdout to start with %q, got %q", tc.out, stdout.String())
			}
		})
	}
}

func TestAppConfigDefaults(t *testing.T) {
	cfg := &AppConfig{}
	cfg.ApplyDefaults()
	if cfg.Name != serviceName || cfg.Version == "" {
		t.Errorf("unexpected identity %q %q", cfg.Name, cfg.Version)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected server defaults, got %+v", cfg.Server)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}

	m := cfg.SiliconFlow.providerConfig("")
	if len(m) != 0 {
		t.Errorf("expected empty provider config, got %v", m)
	}
	cfg.SiliconFlow = SiliconFlowConfig{BaseURL: "https://x.invalid", Timeout: time.Second}
	m = cfg.SiliconFlow.providerConfig("model-a")
	if m["base_url"] != "https://x.invalid" || m["timeout"] != time.Second || m["model"] != "model-a" {
		t.Errorf("unexpected provider config %v", m)
	}
}
