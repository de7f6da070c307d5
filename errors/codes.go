package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Validation errors
const (
	// ErrCodeInvalidInput indicates a missing, empty, or wrong-typed parameter.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Resource errors
const (
	// ErrCodeNotFound indicates a local resource (file, task) does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Remote service errors
const (
	// ErrCodeRemoteRequestFailed indicates a transport failure or a non-2xx response.
	ErrCodeRemoteRequestFailed ErrorCode = "REMOTE_REQUEST_FAILED"
	// ErrCodeMalformedResponse indicates the remote body could not be decoded.
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
)

// Task-level errors. Each task surfaces exactly one of these to its caller.
const (
	// ErrCodeTranscriptionFailed wraps any failure of an audio-to-text task.
	ErrCodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	// ErrCodeSynthesisFailed wraps any failure of a text-to-audio task.
	ErrCodeSynthesisFailed ErrorCode = "SYNTHESIS_FAILED"
	// ErrCodeImageGenerationFailed wraps any failure of an image generation task.
	ErrCodeImageGenerationFailed ErrorCode = "IMAGE_GENERATION_FAILED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected local failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeRemoteRequestFailed: true,
	ErrCodeInternal:            false,
}

// IsRetryableCode returns true if the error code usually indicates a transient
// condition. Nothing in speechkit retries; the flag is informational for callers.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
