package siliconflow

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/synthesis"
)

func newServer(t *testing.T, h http.HandlerFunc) (string, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/v1", &calls
}

func newTestProvider(t *testing.T, url string) (*Provider, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	p, err := NewProvider(Config{BaseURL: url}, WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}
	return p, &buf
}

func TestSynthesize_WritesFile(t *testing.T) {
	audio := []byte("ID3-fake-mp3-bytes")
	url, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk" {
			t.Errorf("unexpected auth %q", r.Header.Get("Authorization"))
		}
		var body speechRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		want := speechRequest{
			Model:          synthesis.DefaultModel,
			Input:          "hello there",
			Voice:          synthesis.DefaultModel + ":alex",
			ResponseFormat: "mp3",
		}
		if body != want {
			t.Errorf("unexpected body %+v", body)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	})
	p, _ := newTestProvider(t, url)
	dir := t.TempDir()

	resp, err := p.Synthesize(context.Background(), synthesis.Request{Text: "hello there", APIKey: "sk", Dir: dir, Name: "greeting"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	wantPath := filepath.Join(dir, "greeting.mp3")
	if resp.Path != wantPath || resp.Bytes != int64(len(audio)) {
		t.Errorf("unexpected response %+v", resp)
	}
	got, err := os.ReadFile(wantPath)
	if err != nil || !bytes.Equal(got, audio) {
		t.Errorf("unexpected file content %q (%v)", got, err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected one call, got %d", calls.Load())
	}
}

func TestSynthesize_InvalidInputSkipsNetwork(t *testing.T) {
	url, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {})
	p, logs := newTestProvider(t, url)

	_, err := p.Synthesize(context.Background(), synthesis.Request{Text: "hi", Dir: t.TempDir(), Name: "x"})
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no calls, got %d", calls.Load())
	}
	if !bytes.Contains(logs.Bytes(), []byte("synthesis failed")) {
		t.Errorf("expected failure to be logged, got %q", logs.String())
	}
}

func TestSynthesize_RemoteError(t *testing.T) {
	url, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"forbidden"}`))
	})
	p, _ := newTestProvider(t, url)
	dir := t.TempDir()

	_, err := p.Synthesize(context.Background(), synthesis.Request{Text: "hi", APIKey: "k", Dir: dir, Name: "x"})
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeRemoteRequestFailed {
		t.Fatalf("expected REMOTE_REQUEST_FAILED, got %v", err)
	}
	if appErr.Details["body"] != `{"message":"forbidden"}` {
		t.Errorf("expected body in details, got %v", appErr.Details["body"])
	}
	if _, err := os.Stat(filepath.Join(dir, "x.mp3")); !os.IsNotExist(err) {
		t.Errorf("expected no output file, stat err = %v", err)
	}
}

func TestSynthesize_InterruptedStreamRemovesFile(t *testing.T) {
	url, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		_, _ = w.Write([]byte("partial"))
	})
	p, _ := newTestProvider(t, url)
	dir := t.TempDir()

	_, err := p.Synthesize(context.Background(), synthesis.Request{Text: "hi", APIKey: "k", Dir: dir, Name: "cut"})
	if !errors.HasCode(err, errors.ErrCodeRemoteRequestFailed) {
		t.Fatalf("expected REMOTE_REQUEST_FAILED, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cut.mp3")); !os.IsNotExist(err) {
		t.Errorf("expected partial file removed, stat err = %v", err)
	}
}

func TestSynthesize_CreateFailureKeepsExistingEntry(t *testing.T) {
	url, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("audio"))
	})
	p, _ := newTestProvider(t, url)
	dir := t.TempDir()
	existing := filepath.Join(dir, "clip.mp3")
	if err := os.Mkdir(existing, 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := p.Synthesize(context.Background(), synthesis.Request{Text: "hi", APIKey: "sk", Dir: dir, Name: "clip"})
	if !errors.HasCode(err, errors.ErrCodeInternal) {
		t.Fatalf("expected INTERNAL_ERROR, got %v", err)
	}
	info, statErr := os.Stat(existing)
	if statErr != nil || !info.IsDir() {
		t.Errorf("expected existing directory to survive, got %v", statErr)
	}
}

func TestSynthesize_EmptyAudioWarns(t *testing.T) {
	url, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {})
	p, logs := newTestProvider(t, url)

	resp, err := p.Synthesize(context.Background(), synthesis.Request{Text: "hi", APIKey: "k", Dir: t.TempDir(), Name: "empty"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Bytes != 0 {
		t.Errorf("expected zero bytes, got %d", resp.Bytes)
	}
	if !bytes.Contains(logs.Bytes(), []byte("synthesis returned empty audio")) {
		t.Errorf("expected warning, got %q", logs.String())
	}
}

func TestFactory(t *testing.T) {
	p, err := Factory()(map[string]any{"base_url": "https://example.invalid/v1", "model": "m"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != ProviderName {
		t.Errorf("unexpected name %q", p.Name())
	}
}
