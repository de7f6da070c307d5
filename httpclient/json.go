package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
)

// TypedResponse wraps a response with a decoded body of type T.
type TypedResponse[T any] struct {
	StatusCode int
	Headers    map[string]string
	Data       T
	// Raw is the undecoded body.
	Raw []byte
}

// RequestOption configures a single request.
type RequestOption func(*Request)

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithRequestAuth overrides authentication for the request.
func WithRequestAuth(auth *AuthConfig) RequestOption {
	return func(r *Request) {
		r.Auth = auth
	}
}

// Post sends body (JSON value or *MultipartBody) and decodes the 2xx JSON
// response into T. A body that is not valid JSON, including an empty one,
// fails with ErrCodeDecode.
func Post[T any](a *Adapter, ctx context.Context, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	req := Request{Method: http.MethodPost, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := a.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var data T
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, NewDecodeError(resp.StatusCode, resp.Body, err)
	}
	return &TypedResponse[T]{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Data:       data,
		Raw:        resp.Body,
	}, nil
}

// DecodeOptional decodes an auxiliary response field into out and reports
// whether it succeeded. A missing, null or wrong-typed field leaves out
// untouched, so extra fields never fail a response whose primary payload decoded.
func DecodeOptional(raw json.RawMessage, out any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}
