// Package siliconflow implements synthesis.Provider against the SiliconFlow
// /audio/speech endpoint, streaming the mp3 body straight to disk.
package siliconflow

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/kbukum/speechkit/config"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/httpclient"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/synthesis"
)

const (
	// ProviderName is the registered name for the SiliconFlow provider.
	ProviderName = "siliconflow"

	// DefaultBaseURL is the public SiliconFlow API root.
	DefaultBaseURL = "https://api.siliconflow.cn/v1"

	speechPath     = "/audio/speech"
	responseFormat = "mp3"
)

// Config holds configuration for the SiliconFlow synthesis provider.
type Config struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Model   string        `mapstructure:"model" yaml:"model"`
}

// Provider implements synthesis.Provider.
type Provider struct {
	cfg  Config
	http *httpclient.Adapter
	log  *logger.Logger
}

// Option configures a Provider.
type Option func(*options)

type options struct {
	log         *logger.Logger
	httpOptions []httpclient.Option
}

// WithLogger sets the logger used for failures and empty results.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithHTTPOptions passes options through to the underlying adapter.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(o *options) { o.httpOptions = append(o.httpOptions, opts...) }
}

// NewProvider creates a new SiliconFlow synthesis provider.
func NewProvider(cfg Config, opts ...Option) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	o := options{log: logger.Named("synthesis")}
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
	return &Provider{cfg: cfg, http: adapter, log: o.log}, nil
}

// Factory returns a provider.Factory that creates Provider instances
// from a generic config map.
func Factory(opts ...Option) provider.Factory[synthesis.Provider] {
	return func(raw map[string]any) (synthesis.Provider, error) {
		var cfg Config
		if err := config.Decode(raw, &cfg); err != nil {
			return nil, errors.InvalidInput("config", err.Error()).WithCause(err)
		}
		return NewProvider(cfg, opts...)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether a base URL is configured.
func (p *Provider) IsAvailable(ctx context.Context) bool { return p.http.IsAvailable(ctx) }

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize posts the text and streams the returned audio into req.OutputPath().
// A partially written file is removed when the transfer fails.
func (p *Provider) Synthesize(ctx context.Context, req synthesis.Request) (*synthesis.Response, error) {
	if req.Model == "" && p.cfg.Model != "" {
		req.Model = p.cfg.Model
	}
	fields := logger.Fields(
		logger.FieldProvider, ProviderName,
		logger.FieldModel, req.ModelOrDefault(),
		logger.FieldPath, req.OutputPath(),
	)

	resp, err := p.synthesize(ctx, req)
	if err != nil {
		p.log.Error("synthesis failed", logger.MergeWithError(fields, err))
		return nil, err
	}
	if resp.Bytes == 0 {
		p.log.Warn("synthesis returned empty audio", fields)
	}
	return resp, nil
}

func (p *Provider) synthesize(ctx context.Context, req synthesis.Request) (*synthesis.Response, error) {
	if err := req.Check(); err != nil {
		return nil, err
	}

	stream, err := p.http.DoStream(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   speechPath,
		Body: speechRequest{
			Model:          req.ModelOrDefault(),
			Input:          req.Text,
			Voice:          req.Voice(),
			ResponseFormat: responseFormat,
		},
		Auth: httpclient.BearerAuth(req.APIKey),
	})
	if err != nil {
		if httpErr, ok := httpclient.AsError(err); ok {
			return nil, httpErr.AppError(ProviderName)
		}
		return nil, errors.Internal(err)
	}
	defer stream.Close()

	path := req.OutputPath()
	n, err := writeFile(path, stream.Body)
	if err != nil {
		return nil, err
	}
	return &synthesis.Response{Path: path, Bytes: n}, nil
}

// writeFile copies r into a new file at path. Local write failures are
// INTERNAL_ERROR; an interrupted body is REMOTE_REQUEST_FAILED. A partial
// file is removed, but only once this call has created it.
func writeFile(path string, r io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Internal(err)
	}
	w := &errWriter{w: f}
	n, copyErr := io.Copy(w, r)
	closeErr := f.Close()

	var failure error
	switch {
	case w.err != nil:
		failure = errors.Internal(w.err)
	case copyErr != nil:
		failure = errors.TransportFailed(ProviderName, copyErr)
	case closeErr != nil:
		failure = errors.Internal(closeErr)
	default:
		return n, nil
	}
	_ = os.Remove(path)
	return n, failure
}

// errWriter remembers the first write error so it can be told apart from read errors.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	n, err := e.w.Write(p)
	if err != nil && e.err == nil {
		e.err = err
	}
	return n, err
}

// Close releases idle connections of the underlying adapter.
func (p *Provider) Close(ctx context.Context) error {
	return p.http.Close(ctx)
}
