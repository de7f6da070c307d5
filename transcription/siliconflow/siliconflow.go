// Package siliconflow implements transcription.Provider against the
// SiliconFlow /audio/transcriptions endpoint.
package siliconflow

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/speechkit/config"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/httpclient"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/transcription"
)

const (
	// ProviderName is the registered name for the SiliconFlow provider.
	ProviderName = "siliconflow"

	// DefaultBaseURL is the public SiliconFlow API root.
	DefaultBaseURL = "https://api.siliconflow.cn/v1"

	transcriptionsPath = "/audio/transcriptions"
	audioContentType   = "audio/wav"
)

// Config holds configuration for the SiliconFlow transcription provider.
type Config struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// Model overrides transcription.DefaultModel for requests that name none.
	Model string `mapstructure:"model" yaml:"model"`
}

// Provider implements transcription.Provider over a shared HTTP adapter.
// It keeps no per-call state; the API key travels with each request.
type Provider struct {
	cfg      Config
	http     *httpclient.Adapter
	observer transcription.Observer
}

// Option configures a Provider.
type Option func(*options)

type options struct {
	observer    transcription.Observer
	httpOptions []httpclient.Option
}

// WithObserver routes empty-result warnings and failures to o.
func WithObserver(o transcription.Observer) Option {
	return func(opts *options) { opts.observer = o }
}

// WithHTTPOptions passes options through to the underlying adapter.
func WithHTTPOptions(o ...httpclient.Option) Option {
	return func(opts *options) { opts.httpOptions = append(opts.httpOptions, o...) }
}

// NewProvider creates a new SiliconFlow transcription provider.
func NewProvider(cfg Config, opts ...Option) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	o := options{observer: logger.Named(ProviderName)}
	for _, opt := range opts {
		opt(&o)
	}

	adapter, err := httpclient.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	}, o.httpOptions...)
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, http: adapter, observer: o.observer}, nil
}

// Factory returns a provider.Factory that creates Provider instances
// from a generic config map (base_url, timeout, model).
func Factory(opts ...Option) provider.Factory[transcription.Provider] {
	return func(raw map[string]any) (transcription.Provider, error) {
		var cfg Config
		if err := config.Decode(raw, &cfg); err != nil {
			return nil, errors.InvalidInput("config", err.Error()).WithCause(err)
		}
		return NewProvider(cfg, opts...)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether a base URL is configured. It makes no network call.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.http.IsAvailable(ctx)
}

// Transcribe uploads req.AudioPath as multipart form data and returns the transcript.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if req.Model == "" && p.cfg.Model != "" {
		req.Model = p.cfg.Model
	}
	fields := logger.Fields(
		logger.FieldProvider, ProviderName,
		logger.FieldPath, req.AudioPath,
		logger.FieldModel, req.ModelOrDefault(),
	)

	resp, err := p.transcribe(ctx, req)
	if err != nil {
		p.observer.Error("transcription failed", logger.MergeWithError(fields, err))
		return nil, err
	}
	if resp.Text == "" {
		p.observer.Warn("transcription returned empty text", fields)
	}
	return resp, nil
}

func (p *Provider) transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if err := req.Check(); err != nil {
		return nil, err
	}

	f, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, errors.NotFound("audio file", req.AudioPath).WithCause(err)
	}
	defer f.Close()

	body := &httpclient.MultipartBody{
		Fields: map[string]string{"model": req.ModelOrDefault()},
		Files: []httpclient.FileField{{
			FieldName:   "file",
			FileName:    filepath.Base(req.AudioPath),
			ContentType: audioContentType,
			Reader:      f,
		}},
	}
	if req.Language != "" {
		body.Fields["language"] = req.Language
	}

	resp, err := httpclient.Post[apiResponse](p.http, ctx, transcriptionsPath, body,
		httpclient.WithHeader("Accept", "application/json"),
		httpclient.WithRequestAuth(httpclient.BearerAuth(req.APIKey)))
	if err != nil {
		if httpErr, ok := httpclient.AsError(err); ok {
			return nil, httpErr.AppError(ProviderName)
		}
		return nil, errors.Internal(err)
	}
	return resp.Data.toResponse(), nil
}

// Close releases idle connections of the underlying adapter.
func (p *Provider) Close(ctx context.Context) error {
	return p.http.Close(ctx)
}

// --- internal API response types ---

// apiResponse decodes text strictly. The remaining fields are optional
// metadata and are read best-effort.
type apiResponse struct {
	Text     string          `json:"text"`
	Language json.RawMessage `json:"language"`
	Duration json.RawMessage `json:"duration"`
	Segments json.RawMessage `json:"segments"`
}

type apiSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func (r apiResponse) toResponse() *transcription.Response {
	out := &transcription.Response{Text: r.Text}
	httpclient.DecodeOptional(r.Language, &out.Language)
	httpclient.DecodeOptional(r.Duration, &out.Duration)

	var segments []apiSegment
	if httpclient.DecodeOptional(r.Segments, &segments) && len(segments) > 0 {
		out.Segments = make([]transcription.Segment, len(segments))
		for i, seg := range segments {
			out.Segments[i] = transcription.Segment{Start: seg.Start, End: seg.End, Text: seg.Text}
		}
		if out.Duration == 0 {
			out.Duration = segments[len(segments)-1].End
		}
	}
	return out
}
