package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation could succeed on a later attempt.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Constructors ---

// InvalidInput creates a new AppError for a missing, empty, or wrong-typed input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for struct validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	msg := fmt.Sprintf("The requested %s was not found.", resource)
	if id != "" {
		details["id"] = id
		msg = fmt.Sprintf("The requested %s was not found: %s", resource, id)
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: msg,
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// RemoteRequestFailed creates a new AppError for a non-2xx response from a
// remote service. The status and body are kept in the message and details.
func RemoteRequestFailed(service string, status int, body []byte) *AppError {
	return &AppError{
		Code:       ErrCodeRemoteRequestFailed,
		Message:    fmt.Sprintf("%s request failed with status %d: %s", service, status, string(body)),
		HTTPStatus: http.StatusBadGateway,
		Retryable:  status == http.StatusTooManyRequests || status >= http.StatusInternalServerError,
		Details:    map[string]any{"service": service, "status": status, "body": string(body)},
	}
}

// TransportFailed creates a new AppError for a request that never produced a
// response (DNS, refused connection, canceled context).
func TransportFailed(service string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeRemoteRequestFailed,
		Message:    fmt.Sprintf("%s request failed: %v", service, cause),
		HTTPStatus: http.StatusBadGateway,
		Retryable:  true,
		Details:    map[string]any{"service": service},
		Cause:      cause,
	}
}

// MalformedResponse creates a new AppError for a response body that could not be decoded.
func MalformedResponse(service string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeMalformedResponse,
		Message:    fmt.Sprintf("%s returned a malformed response", service),
		HTTPStatus: http.StatusBadGateway,
		Retryable:  false,
		Details:    map[string]any{"service": service},
		Cause:      cause,
	}
}

// TaskFailed wraps the cause of a failed task under the task's single
// caller-facing code. The original code, when known, is kept as cause_code.
func TaskFailed(code ErrorCode, task string, cause error) *AppError {
	e := &AppError{
		Code:       code,
		Message:    fmt.Sprintf("%s failed", task),
		HTTPStatus: http.StatusBadGateway,
		Retryable:  false,
		Details:    map[string]any{"task": task},
		Cause:      cause,
	}
	if cause != nil {
		e.Message = fmt.Sprintf("%s failed: %s", task, messageOf(cause))
	}
	if appErr, ok := AsAppError(cause); ok {
		e.Details["cause_code"] = appErr.Code
		e.Retryable = appErr.Retryable
	}
	return e
}

// Internal creates a new AppError for an unexpected local failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

func messageOf(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
