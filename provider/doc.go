// Package provider holds the generic provider framework speechkit backends
// plug into.
//
// Every backend (transcription, synthesis, image generation) embeds Provider.
// Factories build providers from loose config maps, the Manager keeps the
// initialized instances, and RequestResponse middleware (logging, tracing,
// metrics) wraps task handlers.
//
//	mgr := transcription.NewManager()
//	mgr.Register("siliconflow", siliconflow.Factory)
//	mgr.Initialize("siliconflow", map[string]any{"base_url": url})
//	p, _ := mgr.GetByName("siliconflow")
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics),
//	    provider.WithTracing[In, Out]("speechkit"),
//	)(handler)
package provider
