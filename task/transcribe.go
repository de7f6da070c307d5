package task

import (
	"context"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/transcription"
)

var _ Handler = (*Transcribe)(nil)

// Transcribe is the audio-to-text and speech-to-text task. The two differ only
// in name and in the transcription backend they are built with.
type Transcribe struct {
	name     string
	provider transcription.Provider
}

// NewAudioToText returns the audio-to-text task over p.
func NewAudioToText(p transcription.Provider) *Transcribe {
	return &Transcribe{name: NameAudioToText, provider: p}
}

// NewSpeechToText returns the speech-to-text task over p.
func NewSpeechToText(p transcription.Provider) *Transcribe {
	return &Transcribe{name: NameSpeechToText, provider: p}
}

func (t *Transcribe) Name() string                         { return t.name }
func (t *Transcribe) IsAvailable(ctx context.Context) bool { return t.provider.IsAvailable(ctx) }

// Run decodes params, transcribes the audio and returns {"text": ...}.
func (t *Transcribe) Run(ctx context.Context, tctx Context, params map[string]any) (map[string]any, error) {
	return run(ctx, t, tctx, params)
}

// Execute implements Handler.
func (t *Transcribe) Execute(ctx context.Context, inv Invocation) (map[string]any, error) {
	var p AudioToTextParams
	if err := decodeParams(inv.Params, &p); err != nil {
		return nil, err
	}

	resp, err := t.provider.Transcribe(ctx, transcription.Request{
		AudioPath: p.Audio,
		APIKey:    p.APIKey,
		Model:     p.Model,
	})
	if err != nil {
		return nil, wrapFailure(errors.ErrCodeTranscriptionFailed, t.name, err)
	}

	inv.context().Preview(Preview{Type: PreviewMarkdown, Data: resp.Text})
	return map[string]any{"text": resp.Text}, nil
}
