package httpclient

import (
	"io"
	"net/http"
)

// Request describes an outbound HTTP request.
type Request struct {
	Method string
	// Path is appended to the adapter's BaseURL. Can be a full URL.
	Path    string
	Headers map[string]string
	Query   map[string]string
	// Body accepts *MultipartBody, io.Reader, []byte, string, or any value
	// that will be JSON-encoded.
	Body any
	// Auth overrides the adapter-level auth for this request.
	Auth *AuthConfig
}

// Response is the result of an HTTP request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StreamResponse wraps a 2xx response whose body is consumed incrementally.
type StreamResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       io.ReadCloser
	rawResp    *http.Response
	finish     func()
}

// Close releases the body and ends the request span.
func (r *StreamResponse) Close() error {
	var err error
	switch {
	case r.Body != nil:
		err = r.Body.Close()
	case r.rawResp != nil && r.rawResp.Body != nil:
		err = r.rawResp.Body.Close()
	}
	if r.finish != nil {
		r.finish()
		r.finish = nil
	}
	return err
}
