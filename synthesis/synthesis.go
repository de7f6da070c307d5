package synthesis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/provider"
)

const (
	// DefaultModel is the speech model used when a request names none.
	DefaultModel = "FunAudioLLM/CosyVoice2-0.5B"
	// DefaultTimbre is the voice timbre used when a request names none.
	DefaultTimbre = "alex"
	// FileExtension is appended to Request.Name to form the output file.
	FileExtension = ".mp3"
)

// Provider is the interface that speech synthesis backends must implement.
type Provider interface {
	provider.Provider

	// Synthesize renders req.Text to <req.Dir>/<req.Name>.mp3.
	Synthesize(ctx context.Context, req Request) (*Response, error)
}

// Request holds parameters for a synthesis call.
type Request struct {
	Text   string
	APIKey string
	// Dir is an existing directory that receives the output file.
	Dir string
	// Name is the output file name without extension.
	Name   string
	Model  string
	Timbre string
}

// Voice returns the remote voice identifier, "<model>:<timbre>".
func (r Request) Voice() string {
	return fmt.Sprintf("%s:%s", r.ModelOrDefault(), r.TimbreOrDefault())
}

// ModelOrDefault returns the request model, falling back to DefaultModel.
func (r Request) ModelOrDefault() string {
	if r.Model == "" {
		return DefaultModel
	}
	return r.Model
}

// TimbreOrDefault returns the request timbre, falling back to DefaultTimbre.
func (r Request) TimbreOrDefault() string {
	if r.Timbre == "" {
		return DefaultTimbre
	}
	return r.Timbre
}

// OutputPath returns the file the audio is written to.
func (r Request) OutputPath() string {
	return filepath.Join(r.Dir, r.Name+FileExtension)
}

// Check verifies the preconditions of a call without any network I/O.
func (r Request) Check() error {
	for _, f := range []struct{ name, value string }{
		{"content", r.Text},
		{"api_key", r.APIKey},
		{"file_path", r.Dir},
		{"name", r.Name},
	} {
		if strings.TrimSpace(f.value) == "" {
			return errors.InvalidInput(f.name, f.name+" is required")
		}
	}
	if filepath.Base(r.Name) != r.Name {
		return errors.InvalidInput("name", "name must not contain a path separator")
	}
	info, err := os.Stat(r.Dir)
	if err != nil {
		return errors.NotFound("output directory", r.Dir).WithCause(err)
	}
	if !info.IsDir() {
		return errors.NotFound("output directory", r.Dir)
	}
	return nil
}

// Response holds the result of a synthesis call.
type Response struct {
	// Path is the written audio file.
	Path string `json:"path"`
	// Bytes is the size of the written file.
	Bytes int64 `json:"bytes"`
}

// NewManager creates a provider manager for synthesis providers.
func NewManager() *provider.Manager[Provider] {
	return provider.NewManager(provider.NewRegistry[Provider](), &provider.HealthCheckSelector[Provider]{})
}
