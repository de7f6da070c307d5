package task

import (
	"context"

	"github.com/kbukum/speechkit/provider"
)

// Task names.
const (
	NameAudioToText     = "audio-to-text"
	NameSpeechToText    = "speech-to-text"
	NameTextToAudio     = "text-to-audio"
	NameImageGeneration = "image-generation"
)

// Invocation is one activation of a task: its parameters and the host context.
type Invocation struct {
	Context Context
	Params  map[string]any
}

func (inv Invocation) context() Context {
	if inv.Context == nil {
		return Discard
	}
	return inv.Context
}

// Handler is a task. Name is the task name; IsAvailable reports whether the
// backing provider is usable.
type Handler = provider.RequestResponse[Invocation, map[string]any]

// run adapts Execute to the (ctx, tctx, params) call shape.
func run(ctx context.Context, h Handler, tctx Context, params map[string]any) (map[string]any, error) {
	return h.Execute(ctx, Invocation{Context: tctx, Params: params})
}
