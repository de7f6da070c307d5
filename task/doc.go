// Package task hosts the speechkit task handlers.
//
// A handler receives a loose parameter map, decodes it into a typed params
// struct, validates it, calls one provider and returns a small result map.
// Output meant for a human (transcript text, audio path, image URLs) is also
// published through the Context preview side channel.
//
// Every provider failure is reported under a single code per task
// (TRANSCRIPTION_FAILED, SYNTHESIS_FAILED, IMAGE_GENERATION_FAILED) with the
// provider's code kept as the cause_code detail. Parameter errors are
// returned as INVALID_INPUT before any provider call.
//
//	reg := task.NewRegistry()
//	reg.Register(task.NewAudioToText(sf))
//	runner := task.NewRunner(reg)
//	rec := &task.Recorder{}
//	out, err := runner.Run(ctx, task.NameAudioToText, rec, map[string]any{
//		"audio":   "/tmp/clip.wav",
//		"api_key": key,
//	})
package task
