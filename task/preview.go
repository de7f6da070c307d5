package task

import "sync"

// PreviewType identifies how a preview payload should be rendered.
type PreviewType string

const (
	PreviewMarkdown PreviewType = "markdown"
	PreviewAudio    PreviewType = "audio"
	PreviewImage    PreviewType = "image"
)

// Preview is a side-channel artifact published by a handler.
type Preview struct {
	Type PreviewType `json:"type"`
	Data any         `json:"data"`
}

// Context is the host collaborator a handler reports previews to.
type Context interface {
	Preview(p Preview)
}

// Recorder is an in-memory Context. The zero value is ready to use.
type Recorder struct {
	mu       sync.Mutex
	previews []Preview
}

// Preview appends p.
func (r *Recorder) Preview(p Preview) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.previews = append(r.previews, p)
}

// Previews returns a copy of the recorded previews in publish order.
func (r *Recorder) Previews() []Preview {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Preview, len(r.previews))
	copy(out, r.previews)
	return out
}

type discard struct{}

func (discard) Preview(Preview) {}

// Discard is a Context that drops every preview.
var Discard Context = discard{}
