package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/version"
)

var _ provider.RequestResponse[Request, *Response] = (*Adapter)(nil)

// Adapter is a configurable HTTP adapter. It holds only immutable
// configuration and a shared *http.Client, so it is safe for concurrent use.
type Adapter struct {
	httpClient *http.Client
	config     Config
	metrics    *observability.Metrics
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithMetrics records a remote.request sample per call.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Adapter) { a.metrics = m }
}

// WithHTTPClient replaces the underlying client (tests, custom transports).
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Do executes an HTTP request and returns the complete response.
// A non-2xx status returns both the response and a classified *Error.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	ctx, finish := a.startCall(ctx, req)

	resp, err := a.roundTrip(ctx, req, a.httpClient)
	if err != nil {
		finish(0, err)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e := NewConnectionError(fmt.Errorf("read response body: %w", err))
		finish(resp.StatusCode, e)
		return nil, e
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}
	if !result.IsSuccess() {
		classErr := ClassifyStatusCode(resp.StatusCode, body)
		finish(resp.StatusCode, classErr)
		return result, classErr
	}
	finish(resp.StatusCode, nil)
	return result, nil
}

// DoStream executes an HTTP request and returns the body unread.
// The caller must Close the returned StreamResponse. The adapter timeout is
// not applied; ctx bounds the whole transfer.
func (a *Adapter) DoStream(ctx context.Context, req Request) (*StreamResponse, error) {
	ctx, finish := a.startCall(ctx, req)

	streamClient := &http.Client{Transport: a.httpClient.Transport}
	resp, err := a.roundTrip(ctx, req, streamClient)
	if err != nil {
		finish(0, err)
		return nil, err
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, nil); classErr != nil {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		classErr.Body = body
		finish(resp.StatusCode, classErr)
		return nil, classErr
	}

	return &StreamResponse{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       resp.Body,
		rawResp:    resp,
		finish:     func() { finish(resp.StatusCode, nil) },
	}, nil
}

// startCall opens the request span and returns a func that records the outcome.
func (a *Adapter) startCall(ctx context.Context, req Request) (context.Context, func(status int, err error)) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest,
		trace.WithSpanKind(trace.SpanKindClient))
	observability.SetSpanAttribute(ctx, observability.AttrServiceName, a.config.Name)
	observability.SetSpanAttribute(ctx, observability.AttrHTTPMethod, req.Method)
	observability.SetSpanAttribute(ctx, observability.AttrHTTPURL, a.resolveURL(req.Path))

	return ctx, func(status int, err error) {
		if status > 0 {
			observability.SetSpanAttribute(ctx, observability.AttrHTTPStatusCode, status)
		}
		if err != nil {
			observability.SetSpanError(ctx, err)
		}
		span.End()
		a.metrics.RecordRemoteCall(ctx, a.config.Name, req.Path, status, time.Since(start))
	}
}

func (a *Adapter) roundTrip(ctx context.Context, req Request, client *http.Client) (*http.Response, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	return resp, nil
}

func (a *Adapter) resolveURL(path string) string {
	if a.config.BaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// buildRequest constructs an *http.Request from the adapter config and request.
func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewEncodeError(fmt.Errorf("encode body: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, a.resolveURL(req.Path), body)
	if err != nil {
		return nil, NewEncodeError(fmt.Errorf("create request: %w", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	httpReq.Header.Set("User-Agent", version.UserAgent())
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case *MultipartBody:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

// Name returns the configured service name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// IsAvailable reports whether a base URL is configured.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	return a.config.BaseURL != ""
}

// Execute is Do under the provider.RequestResponse contract.
func (a *Adapter) Execute(ctx context.Context, req Request) (*Response, error) {
	return a.Do(ctx, req)
}

// Close releases idle connections.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// Config returns the adapter's configuration.
func (a *Adapter) Config() Config {
	return a.config
}
