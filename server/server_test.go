package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechkit/component"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/task"
	"github.com/kbukum/speechkit/transcription"
)

type stubTranscriber struct {
	text string
	err  error
	last transcription.Request
}

func (s *stubTranscriber) Name() string                     { return "stub" }
func (s *stubTranscriber) IsAvailable(context.Context) bool { return true }
func (s *stubTranscriber) Transcribe(_ context.Context, req transcription.Request) (*transcription.Response, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &transcription.Response{Text: s.text}, nil
}

type stubChecker []component.Health

func (s stubChecker) HealthAll(context.Context) []component.Health { return s }

func testConfig() Config {
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0
	return cfg
}

func newTestServer(t *testing.T, tr transcription.Provider, checker HealthChecker) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := task.NewRegistry()
	reg.Register(task.NewAudioToText(tr))
	runner := task.NewRunner(reg, task.WithLogger(logger.Nop()))

	s := New(testConfig(), logger.Nop())
	s.ApplyMiddleware()
	s.RegisterRoutes(runner, checker)
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, w.Body.String())
	}
	return env
}

func TestRunTask(t *testing.T) {
	tr := &stubTranscriber{text: "hello"}
	s := newTestServer(t, tr, nil)

	w := do(t, s, http.MethodPost, "/v1/tasks/audio-to-text",
		`{"audio":"/tmp/a.wav","api_key":"sk-1","model":"m"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id header")
	}

	var body struct {
		Data TaskResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Result["text"] != "hello" {
		t.Errorf("unexpected result %v", body.Data.Result)
	}
	if len(body.Data.Previews) != 1 || body.Data.Previews[0].Type != task.PreviewMarkdown || body.Data.Previews[0].Data != "hello" {
		t.Errorf("unexpected previews %+v", body.Data.Previews)
	}
	if tr.last.APIKey != "sk-1" || tr.last.AudioPath != "/tmp/a.wav" || tr.last.Model != "m" {
		t.Errorf("params not forwarded: %+v", tr.last)
	}
}

func TestRunTaskInvalidParams(t *testing.T) {
	tr := &stubTranscriber{text: "unused"}
	s := newTestServer(t, tr, nil)

	w := do(t, s, http.MethodPost, "/v1/tasks/audio-to-text", `{"audio":"/tmp/a.wav"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Error.Code != string(errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %q", env.Error.Code)
	}
	if env.Error.Details["field"] != "api_key" {
		t.Errorf("expected field api_key, got %v", env.Error.Details["field"])
	}
	if tr.last.AudioPath != "" {
		t.Error("provider must not be called on invalid params")
	}
}

func TestRunTaskProviderFailure(t *testing.T) {
	tr := &stubTranscriber{err: errors.RemoteRequestFailed("siliconflow", 401, []byte("bad key"))}
	s := newTestServer(t, tr, nil)

	w := do(t, s, http.MethodPost, "/v1/tasks/audio-to-text", `{"audio":"/tmp/a.wav","api_key":"sk-bad"}`)
	env := decodeError(t, w)
	if env.Error.Code != string(errors.ErrCodeTranscriptionFailed) {
		t.Errorf("expected %s, got %q", errors.ErrCodeTranscriptionFailed, env.Error.Code)
	}
	if env.Error.Details["cause_code"] != string(errors.ErrCodeRemoteRequestFailed) {
		t.Errorf("expected cause_code, got %v", env.Error.Details)
	}
}

func TestRunTaskBadRequests(t *testing.T) {
	s := newTestServer(t, &stubTranscriber{}, nil)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.ErrorCode
	}{
		{"unknown task", "/v1/tasks/nope", `{}`, http.StatusNotFound, errors.ErrCodeNotFound},
		{"not json", "/v1/tasks/audio-to-text", `audio=x`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"json array", "/v1/tasks/audio-to-text", `[1,2]`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown route", "/v2/whatever", `{}`, http.StatusNotFound, errors.ErrCodeNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tc.path, tc.body)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if env := decodeError(t, w); env.Error.Code != string(tc.code) {
				t.Errorf("expected %s, got %q", tc.code, env.Error.Code)
			}
		})
	}
}

func TestRunTaskBodyTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.MaxBodyBytes = 16

	reg := task.NewRegistry()
	reg.Register(task.NewAudioToText(&stubTranscriber{}))
	s := New(cfg, logger.Nop())
	s.ApplyMiddleware()
	s.RegisterRoutes(task.NewRunner(reg, task.WithLogger(logger.Nop())), nil)

	w := do(t, s, http.MethodPost, "/v1/tasks/audio-to-text", `{"audio":"`+strings.Repeat("a", 64)+`"}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListTasks(t *testing.T) {
	s := newTestServer(t, &stubTranscriber{}, nil)

	w := do(t, s, http.MethodGet, "/v1/tasks", "")
	var body struct {
		Data struct {
			Tasks []string `json:"tasks"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data.Tasks) != 1 || body.Data.Tasks[0] != task.NameAudioToText {
		t.Errorf("unexpected tasks %v", body.Data.Tasks)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		checker HealthChecker
		status  int
		overall component.HealthStatus
	}{
		{"no checker", nil, http.StatusOK, component.StatusHealthy},
		{"degraded", stubChecker{
			{Name: "a", Status: component.StatusHealthy},
			{Name: "b", Status: component.StatusDegraded},
		}, http.StatusOK, component.StatusDegraded},
		{"unhealthy", stubChecker{
			{Name: "a", Status: component.StatusUnhealthy, Message: "down"},
		}, http.StatusServiceUnavailable, component.StatusUnhealthy},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, &stubTranscriber{}, tc.checker)
			w := do(t, s, http.MethodGet, "/health", "")
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			var report HealthReport
			if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
				t.Fatal(err)
			}
			if report.Status != tc.overall {
				t.Errorf("expected %s, got %s", tc.overall, report.Status)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	s := newTestServer(t, &stubTranscriber{}, nil)
	w := do(t, s, http.MethodGet, "/version", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var info map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info["version"] == "" || info["version"] == nil {
		t.Errorf("expected version field, got %v", info)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Port != 8080 || cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}

	bad := cfg
	bad.Port = 70000
	if err := bad.Validate(); err == nil {
		t.Error("expected out-of-range port to fail")
	}
}

func TestStartStopComponent(t *testing.T) {
	s := newTestServer(t, &stubTranscriber{}, nil)
	c := NewComponent(s)

	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}

	resp, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after stop, got %s", h.Status)
	}
}
