package task

import (
	"context"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/imagegen"
)

var _ Handler = (*ImageGeneration)(nil)

// ImageGeneration is the image-generation task.
type ImageGeneration struct {
	provider imagegen.Provider
}

// NewImageGeneration returns the image-generation task over p.
func NewImageGeneration(p imagegen.Provider) *ImageGeneration {
	return &ImageGeneration{provider: p}
}

func (g *ImageGeneration) Name() string                         { return NameImageGeneration }
func (g *ImageGeneration) IsAvailable(ctx context.Context) bool { return g.provider.IsAvailable(ctx) }

// Run decodes params, generates the images and returns {"output": urls}.
func (g *ImageGeneration) Run(ctx context.Context, tctx Context, params map[string]any) (map[string]any, error) {
	return run(ctx, g, tctx, params)
}

// Execute implements Handler.
func (g *ImageGeneration) Execute(ctx context.Context, inv Invocation) (map[string]any, error) {
	var p ImageGenerationParams
	if err := decodeParams(inv.Params, &p); err != nil {
		return nil, err
	}

	resp, err := g.provider.Generate(ctx, imagegen.Request{
		APIKey:            p.Token,
		Model:             p.Model,
		Prompt:            p.Prompt,
		NegativePrompt:    p.NegativePrompt,
		ImageSize:         p.ImageSize,
		BatchSize:         p.BatchSize,
		Seed:              p.Seed,
		NumInferenceSteps: p.NumInferenceSteps,
		GuidanceScale:     p.GuidanceScale,
		PromptEnhancement: p.PromptEnhancement,
	})
	if err != nil {
		return nil, wrapFailure(errors.ErrCodeImageGenerationFailed, NameImageGeneration, err)
	}

	inv.context().Preview(Preview{Type: PreviewImage, Data: resp.URLs})
	return map[string]any{"output": resp.URLs}, nil
}
