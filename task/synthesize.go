package task

import (
	"context"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/synthesis"
)

var _ Handler = (*TextToAudio)(nil)

// TextToAudio is the text-to-audio task.
type TextToAudio struct {
	provider synthesis.Provider
}

// NewTextToAudio returns the text-to-audio task over p.
func NewTextToAudio(p synthesis.Provider) *TextToAudio {
	return &TextToAudio{provider: p}
}

func (t *TextToAudio) Name() string                         { return NameTextToAudio }
func (t *TextToAudio) IsAvailable(ctx context.Context) bool { return t.provider.IsAvailable(ctx) }

// Run decodes params, writes the audio file and returns {"audio_address": path}.
func (t *TextToAudio) Run(ctx context.Context, tctx Context, params map[string]any) (map[string]any, error) {
	return run(ctx, t, tctx, params)
}

// Execute implements Handler.
func (t *TextToAudio) Execute(ctx context.Context, inv Invocation) (map[string]any, error) {
	var p TextToAudioParams
	if err := decodeParams(inv.Params, &p); err != nil {
		return nil, err
	}

	resp, err := t.provider.Synthesize(ctx, synthesis.Request{
		Text:   p.Content,
		APIKey: p.APIKey,
		Dir:    p.FilePath,
		Name:   p.Name,
		Model:  p.Model,
		Timbre: p.Timbre,
	})
	if err != nil {
		return nil, wrapFailure(errors.ErrCodeSynthesisFailed, NameTextToAudio, err)
	}

	inv.context().Preview(Preview{Type: PreviewAudio, Data: resp.Path})
	return map[string]any{"audio_address": resp.Path}, nil
}
