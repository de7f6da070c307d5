package transcription

import (
	"os"
	"strings"

	"github.com/kbukum/speechkit/errors"
)

// DefaultModel is the model sent when a request does not name one.
const DefaultModel = "FunAudioLLM/SenseVoiceSmall"

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is the local path of the audio file to upload.
	AudioPath string `json:"audio_path"`
	// Model is the remote model identifier. Empty means DefaultModel.
	Model string `json:"model,omitempty"`
	// APIKey is sent as a bearer token on this call only.
	APIKey string `json:"-"`
	// Language is an optional hint (e.g. "en").
	Language string `json:"language,omitempty"`
}

// ModelOrDefault returns the request model, falling back to DefaultModel.
func (r Request) ModelOrDefault() string {
	if r.Model == "" {
		return DefaultModel
	}
	return r.Model
}

// Check verifies the preconditions of a call without any network I/O:
// an audio path and API key are present and the path names a regular file.
func (r Request) Check() error {
	if strings.TrimSpace(r.AudioPath) == "" {
		return errors.InvalidInput("audio", "audio is required")
	}
	if strings.TrimSpace(r.APIKey) == "" {
		return errors.InvalidInput("api_key", "api_key is required")
	}
	info, err := os.Stat(r.AudioPath)
	if err != nil {
		return errors.NotFound("audio file", r.AudioPath).WithCause(err)
	}
	if info.IsDir() {
		return errors.NotFound("audio file", r.AudioPath)
	}
	return nil
}

// Response holds the result of a transcription call.
type Response struct {
	// Text is the transcript. It may be empty.
	Text string `json:"text"`
	// Language is the detected or requested language, when reported.
	Language string `json:"language,omitempty"`
	// Duration is the audio duration in seconds, when reported.
	Duration float64 `json:"duration,omitempty"`
	// Segments contains time-aligned transcript segments, when reported.
	Segments []Segment `json:"segments,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
