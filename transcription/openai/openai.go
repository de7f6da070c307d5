// Package openai implements transcription.Provider with the go-openai client
// pointed at an OpenAI-compatible base URL.
package openai

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/speechkit/config"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/transcription"
)

const (
	// ProviderName is the registered name for the go-openai provider.
	ProviderName = "openai"

	// DefaultBaseURL is the OpenAI-compatible API root used when none is configured.
	DefaultBaseURL = "https://api.siliconflow.cn/v1"

	defaultTimeout = 30 * time.Second
)

// Config holds configuration for the go-openai transcription provider.
type Config struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Model   string        `mapstructure:"model" yaml:"model"`
}

// Provider implements transcription.Provider. A go-openai client is built per
// call because the API key is a per-request parameter; the *http.Client is shared.
type Provider struct {
	cfg        Config
	httpClient *http.Client
	observer   transcription.Observer
}

// Option configures a Provider.
type Option func(*Provider)

// WithObserver routes empty-result warnings and failures to o.
func WithObserver(o transcription.Observer) Option {
	return func(p *Provider) { p.observer = o }
}

// WithHTTPClient replaces the shared HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

// NewProvider creates a new go-openai transcription provider.
func NewProvider(cfg Config, opts ...Option) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	p := &Provider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		observer:   logger.Named(ProviderName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Factory returns a provider.Factory that creates Provider instances
// from a generic config map.
func Factory(opts ...Option) provider.Factory[transcription.Provider] {
	return func(raw map[string]any) (transcription.Provider, error) {
		var cfg Config
		if err := config.Decode(raw, &cfg); err != nil {
			return nil, errors.InvalidInput("config", err.Error()).WithCause(err)
		}
		return NewProvider(cfg, opts...), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether a base URL is configured.
func (p *Provider) IsAvailable(_ context.Context) bool { return p.cfg.BaseURL != "" }

// Transcribe sends the audio file through CreateTranscription.
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

	clientCfg := openai.DefaultConfig(req.APIKey)
	clientCfg.BaseURL = p.cfg.BaseURL
	clientCfg.HTTPClient = p.httpClient
	client := openai.NewClientWithConfig(clientCfg)

	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest,
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrServiceName, ProviderName)
	observability.SetSpanAttribute(ctx, observability.AttrHTTPURL, p.cfg.BaseURL+"/audio/transcriptions")

	out, err := client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    req.ModelOrDefault(),
		FilePath: filepath.Base(req.AudioPath),
		Reader:   f,
		Language: req.Language,
	})
	if err != nil {
		appErr := mapError(err)
		observability.SetSpanError(ctx, appErr)
		return nil, appErr
	}
	return toResponse(out), nil
}

// mapError classifies go-openai errors into the speechkit taxonomy.
func mapError(err error) *errors.AppError {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return errors.RemoteRequestFailed(ProviderName, apiErr.HTTPStatusCode, []byte(apiErr.Message)).WithCause(err)
	}
	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		return errors.RemoteRequestFailed(ProviderName, reqErr.HTTPStatusCode, []byte(reqErr.Error())).WithCause(err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &syntaxErr) || stderrors.As(err, &typeErr) ||
		stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.MalformedResponse(ProviderName, err)
	}
	return errors.TransportFailed(ProviderName, err)
}

func toResponse(r openai.AudioResponse) *transcription.Response {
	out := &transcription.Response{
		Text:     r.Text,
		Language: r.Language,
		Duration: r.Duration,
	}
	for _, seg := range r.Segments {
		out.Segments = append(out.Segments, transcription.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return out
}
