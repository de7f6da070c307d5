package httpclient

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/kbukum/speechkit/errors"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates the context or client deadline expired.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, reset).
	ErrCodeConnection
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the remote resource was not found (404).
	ErrCodeNotFound
	// ErrCodeRateLimit indicates rate limiting (429).
	ErrCodeRateLimit
	// ErrCodeValidation indicates the remote rejected the request (other 4xx).
	ErrCodeValidation
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
	// ErrCodeEncode indicates the request body could not be built.
	ErrCodeEncode
	// ErrCodeDecode indicates a 2xx body could not be decoded.
	ErrCodeDecode
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	case ErrCodeEncode:
		return "encode"
	case ErrCodeDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is a structured HTTP client error with classification.
type Error struct {
	// StatusCode is the HTTP status code (0 for connection-level errors).
	StatusCode int
	Code       ErrorCode
	Message    string
	// Body is the original response body (may be nil).
	Body []byte
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// AppError converts e into the speechkit error taxonomy for the named service:
// any response status becomes REMOTE_REQUEST_FAILED carrying status and body,
// a transport failure becomes REMOTE_REQUEST_FAILED with e as cause, an
// undecodable body becomes MALFORMED_RESPONSE and a body that could not be
// built becomes INTERNAL_ERROR. Rejected credentials and timeouts are
// flagged in the "reason" detail.
func (e *Error) AppError(service string) *errors.AppError {
	var appErr *errors.AppError
	switch {
	case e.Code == ErrCodeDecode:
		return errors.MalformedResponse(service, e)
	case e.Code == ErrCodeEncode:
		return errors.Internal(e)
	case e.StatusCode > 0:
		appErr = errors.RemoteRequestFailed(service, e.StatusCode, e.Body).WithCause(e)
	default:
		appErr = errors.TransportFailed(service, e)
	}
	if IsAuth(e) || IsTimeout(e) {
		appErr.WithDetail("reason", e.Code.String())
	}
	return appErr
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Err: err}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Err: err}
}

// NewEncodeError creates an error for a request body that could not be built.
func NewEncodeError(err error) *Error {
	return &Error{Code: ErrCodeEncode, Message: err.Error(), Err: err}
}

// NewDecodeError creates an error for a response body that could not be decoded.
func NewDecodeError(statusCode int, body []byte, err error) *Error {
	return &Error{StatusCode: statusCode, Code: ErrCodeDecode, Message: err.Error(), Body: body, Err: err}
}

// ClassifyStatusCode converts an HTTP status code into a typed error.
// Returns nil for 2xx status codes.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	e := &Error{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Body:       body,
	}
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Code = ErrCodeAuth
	case statusCode == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		e.Code = ErrCodeRateLimit
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeValidation
	default:
		e.Code = ErrCodeServer
	}
	return e
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeAuth
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeTimeout
}
