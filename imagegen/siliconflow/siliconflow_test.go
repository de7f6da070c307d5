package siliconflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/imagegen"
	"github.com/kbukum/speechkit/logger"
)

func newTestProvider(t *testing.T, h http.HandlerFunc) (*Provider, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	p, err := NewProvider(Config{BaseURL: srv.URL + "/v1"}, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatal(err)
	}
	return p, &calls
}

func TestGenerate_Success(t *testing.T) {
	p, calls := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("unexpected auth %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("unexpected accept %q", r.Header.Get("Accept"))
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body["image_size"] != "1024x1024" || body["negative_prompt"] != "<string>" {
			t.Errorf("defaults not applied: %v", body)
		}
		if body["seed"] != float64(4999999999) || body["guidance_scale"] != 7.5 {
			t.Errorf("numeric defaults not applied: %v", body)
		}
		if body["prompt_enhancement"] != false {
			t.Errorf("expected prompt_enhancement false, got %v", body["prompt_enhancement"])
		}
		_, _ = w.Write([]byte(`{"images":[{"url":"https://img/1.png"},{"url":"https://img/2.png"}],"timings":{"inference":1.25},"seed":42}`))
	})

	resp, err := p.Generate(context.Background(), imagegen.Request{APIKey: "tok", Model: "m", Prompt: "a fox"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(resp.URLs) != 2 || resp.URLs[0] != "https://img/1.png" || resp.URLs[1] != "https://img/2.png" {
		t.Errorf("unexpected urls %v", resp.URLs)
	}
	if resp.Seed != 42 || resp.InferenceSeconds != 1.25 {
		t.Errorf("unexpected metadata %+v", resp)
	}
	if calls.Load() != 1 {
		t.Errorf("expected one call, got %d", calls.Load())
	}
}

func TestGenerate_ExtraFieldsIgnored(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"timings as string", `{"images":[{"url":"https://img/1.png"}],"timings":"fast"}`},
		{"seed as string", `{"images":[{"url":"https://img/1.png"}],"seed":"42"}`},
		{"inference as string", `{"images":[{"url":"https://img/1.png"}],"timings":{"inference":"1.0"},"seed":7}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})
			resp, err := p.Generate(context.Background(), imagegen.Request{APIKey: "k", Model: "m", Prompt: "p"})
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if len(resp.URLs) != 1 || resp.URLs[0] != "https://img/1.png" {
				t.Errorf("unexpected urls %v", resp.URLs)
			}
			if resp.InferenceSeconds != 0 {
				t.Errorf("expected unreadable timings to be dropped, got %v", resp.InferenceSeconds)
			}
		})
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   errors.ErrorCode
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"unauthorized"}`, errors.ErrCodeRemoteRequestFailed},
		{"server error", http.StatusServiceUnavailable, `busy`, errors.ErrCodeRemoteRequestFailed},
		{"not json", http.StatusOK, `<html>`, errors.ErrCodeMalformedResponse},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := p.Generate(context.Background(), imagegen.Request{APIKey: "k", Model: "m", Prompt: "p"})
			if !errors.HasCode(err, tc.code) {
				t.Errorf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestGenerate_InvalidInputSkipsNetwork(t *testing.T) {
	p, calls := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := p.Generate(context.Background(), imagegen.Request{Model: "m", Prompt: "p"})
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no calls, got %d", calls.Load())
	}
}
