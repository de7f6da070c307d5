// Package transcription defines the provider interface and common types
// for speech-to-text backends.
//
// # Backends
//
//   - transcription/siliconflow: multipart upload to an OpenAI-compatible
//     /audio/transcriptions endpoint
//   - transcription/openai: the same endpoint through the go-openai client
//
// # Usage
//
//	mgr := transcription.NewManager()
//	mgr.Register(siliconflow.ProviderName, siliconflow.Factory())
//	_ = mgr.Initialize(siliconflow.ProviderName, map[string]any{"base_url": url})
//	p, _ := mgr.GetByName(siliconflow.ProviderName)
//	resp, err := p.Transcribe(ctx, transcription.Request{AudioPath: path, APIKey: key})
package transcription
