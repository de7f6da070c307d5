// Package siliconflow implements imagegen.Provider against the SiliconFlow
// /images/generations endpoint.
package siliconflow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kbukum/speechkit/config"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/httpclient"
	"github.com/kbukum/speechkit/imagegen"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/provider"
)

const (
	// ProviderName is the registered name for the SiliconFlow provider.
	ProviderName = "siliconflow"

	// DefaultBaseURL is the public SiliconFlow API root.
	DefaultBaseURL = "https://api.siliconflow.cn/v1"

	generationsPath = "/images/generations"
)

// Config holds configuration for the SiliconFlow image provider.
type Config struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Provider implements imagegen.Provider.
type Provider struct {
	http *httpclient.Adapter
	log  *logger.Logger
}

// Option configures a Provider.
type Option func(*options)

type options struct {
	log         *logger.Logger
	httpOptions []httpclient.Option
}

// WithLogger sets the logger used for failures.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithHTTPOptions passes options through to the underlying adapter.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(o *options) { o.httpOptions = append(o.httpOptions, opts...) }
}

// NewProvider creates a new SiliconFlow image generation provider.
func NewProvider(cfg Config, opts ...Option) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	o := options{log: logger.Named("imagegen")}
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
	return &Provider{http: adapter, log: o.log}, nil
}

// Factory returns a provider.Factory that creates Provider instances
// from a generic config map.
func Factory(opts ...Option) provider.Factory[imagegen.Provider] {
	return func(raw map[string]any) (imagegen.Provider, error) {
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

type apiResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
	// Timings and seed are informational and read best-effort.
	Timings json.RawMessage `json:"timings"`
	Seed    json.RawMessage `json:"seed"`
}

type apiTimings struct {
	Inference float64 `json:"inference"`
}

// Generate posts the resolved payload and returns the image URLs.
func (p *Provider) Generate(ctx context.Context, req imagegen.Request) (*imagegen.Response, error) {
	fields := logger.Fields(logger.FieldProvider, ProviderName, logger.FieldModel, req.Model)

	resp, err := p.generate(ctx, req)
	if err != nil {
		p.log.Error("image generation failed", logger.MergeWithError(fields, err))
		return nil, err
	}
	if len(resp.URLs) == 0 {
		p.log.Warn("image generation returned no images", fields)
	}
	return resp, nil
}

func (p *Provider) generate(ctx context.Context, req imagegen.Request) (*imagegen.Response, error) {
	if err := req.Check(); err != nil {
		return nil, err
	}

	resp, err := httpclient.Post[apiResponse](p.http, ctx, generationsPath, req.Payload(),
		httpclient.WithHeader("Accept", "application/json"),
		httpclient.WithRequestAuth(httpclient.BearerAuth(req.APIKey)))
	if err != nil {
		if httpErr, ok := httpclient.AsError(err); ok {
			return nil, httpErr.AppError(ProviderName)
		}
		return nil, errors.Internal(err)
	}

	urls := make([]string, 0, len(resp.Data.Images))
	for _, img := range resp.Data.Images {
		urls = append(urls, img.URL)
	}
	out := &imagegen.Response{URLs: urls}
	httpclient.DecodeOptional(resp.Data.Seed, &out.Seed)
	var timings apiTimings
	if httpclient.DecodeOptional(resp.Data.Timings, &timings) {
		out.InferenceSeconds = timings.Inference
	}
	return out, nil
}

// Close releases idle connections of the underlying adapter.
func (p *Provider) Close(ctx context.Context) error {
	return p.http.Close(ctx)
}
