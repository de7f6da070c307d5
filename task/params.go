package task

import (
	"github.com/kbukum/speechkit/config"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/imagegen"
	"github.com/kbukum/speechkit/validation"
)

// AudioToTextParams are the parameters of the audio-to-text task.
type AudioToTextParams struct {
	Audio  string `mapstructure:"audio" validate:"required,notblank"`
	APIKey string `mapstructure:"api_key" validate:"required,notblank"`
	// Model defaults to transcription.DefaultModel.
	Model string `mapstructure:"model"`
}

// SpeechToTextParams are the parameters of the speech-to-text task.
type SpeechToTextParams = AudioToTextParams

// TextToAudioParams are the parameters of the text-to-audio task.
type TextToAudioParams struct {
	Content  string `mapstructure:"content" validate:"required,notblank"`
	APIKey   string `mapstructure:"api_key" validate:"required,notblank"`
	FilePath string `mapstructure:"file_path" validate:"required,notblank"`
	Name     string `mapstructure:"name" validate:"required,notblank"`
	// Timbre defaults to synthesis.DefaultTimbre.
	Timbre string `mapstructure:"timbre"`
	// Model defaults to synthesis.DefaultModel.
	Model string `mapstructure:"model"`
}

// ImageGenerationParams are the parameters of the image-generation task.
// Nil optional fields take the imagegen defaults.
type ImageGenerationParams struct {
	Token             string         `mapstructure:"token" validate:"required,notblank"`
	Model             string         `mapstructure:"model" validate:"required,notblank"`
	Prompt            string         `mapstructure:"prompt" validate:"required,notblank"`
	NegativePrompt    *string        `mapstructure:"negative_prompt"`
	ImageSize         *imagegen.Size `mapstructure:"image_size"`
	BatchSize         *int           `mapstructure:"batch_size" validate:"omitempty,gte=1"`
	Seed              *int64         `mapstructure:"seed" validate:"omitempty,gte=0"`
	NumInferenceSteps *int           `mapstructure:"num_inference_steps" validate:"omitempty,gte=1"`
	GuidanceScale     *float64       `mapstructure:"guidance_scale" validate:"omitempty,gt=0"`
	PromptEnhancement *bool          `mapstructure:"prompt_enhancement"`
}

// decodeParams fills out from params and validates it. Any failure is INVALID_INPUT.
func decodeParams(params map[string]any, out any) error {
	if err := config.Decode(params, out); err != nil {
		return errors.InvalidInput("params", err.Error()).WithCause(err)
	}
	return validation.Validate(out)
}
