package imagegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/provider"
)

// Defaults applied to optional request fields.
const (
	DefaultNegativePrompt = "<string>"
	DefaultImageSize      = "1024x1024"
	DefaultBatchSize      = 1
	DefaultSeed           = 4999999999
	DefaultInferenceSteps = 20
	DefaultGuidanceScale  = 7.5
)

// Provider is the interface that image generation backends must implement.
type Provider interface {
	provider.Provider

	Generate(ctx context.Context, req Request) (*Response, error)
}

// Size is an image size in pixels.
type Size struct {
	Width  int `json:"width" mapstructure:"width" validate:"gt=0"`
	Height int `json:"height" mapstructure:"height" validate:"gt=0"`
}

// String formats s as "WxH".
func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Request holds parameters for an image generation call.
// Nil optional fields take the package defaults.
type Request struct {
	APIKey            string
	Model             string
	Prompt            string
	NegativePrompt    *string
	ImageSize         *Size
	BatchSize         *int
	Seed              *int64
	NumInferenceSteps *int
	GuidanceScale     *float64
	PromptEnhancement *bool
}

// Check verifies the required fields are present.
func (r Request) Check() error {
	for _, f := range []struct{ name, value string }{
		{"token", r.APIKey},
		{"model", r.Model},
		{"prompt", r.Prompt},
	} {
		if strings.TrimSpace(f.value) == "" {
			return errors.InvalidInput(f.name, f.name+" is required")
		}
	}
	return nil
}

// Payload is the JSON body sent to the generation endpoint.
type Payload struct {
	Model             string  `json:"model"`
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt"`
	ImageSize         string  `json:"image_size"`
	BatchSize         int     `json:"batch_size"`
	Seed              int64   `json:"seed"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
	PromptEnhancement bool    `json:"prompt_enhancement"`
}

// Payload resolves r against the defaults.
func (r Request) Payload() Payload {
	p := Payload{
		Model:             r.Model,
		Prompt:            r.Prompt,
		NegativePrompt:    DefaultNegativePrompt,
		ImageSize:         DefaultImageSize,
		BatchSize:         DefaultBatchSize,
		Seed:              DefaultSeed,
		NumInferenceSteps: DefaultInferenceSteps,
		GuidanceScale:     DefaultGuidanceScale,
	}
	if r.NegativePrompt != nil {
		p.NegativePrompt = *r.NegativePrompt
	}
	if r.ImageSize != nil {
		p.ImageSize = r.ImageSize.String()
	}
	if r.BatchSize != nil {
		p.BatchSize = *r.BatchSize
	}
	if r.Seed != nil {
		p.Seed = *r.Seed
	}
	if r.NumInferenceSteps != nil {
		p.NumInferenceSteps = *r.NumInferenceSteps
	}
	if r.GuidanceScale != nil {
		p.GuidanceScale = *r.GuidanceScale
	}
	if r.PromptEnhancement != nil {
		p.PromptEnhancement = *r.PromptEnhancement
	}
	return p
}

// Response holds the result of a generation call.
type Response struct {
	URLs []string `json:"urls"`
	Seed int64    `json:"seed,omitempty"`
	// InferenceSeconds is the remote inference time, when reported.
	InferenceSeconds float64 `json:"inference_seconds,omitempty"`
}

// NewManager creates a provider manager for image generation providers.
func NewManager() *provider.Manager[Provider] {
	return provider.NewManager(provider.NewRegistry[Provider](), &provider.HealthCheckSelector[Provider]{})
}
