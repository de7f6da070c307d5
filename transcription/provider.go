package transcription

import (
	"context"

	"github.com/kbukum/speechkit/provider"
)

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Transcribe uploads the audio file and returns the transcript.
	// Errors are *errors.AppError.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// Observer receives the non-fatal and fatal events of a transcription call.
// *logger.Logger satisfies it.
type Observer interface {
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
}
