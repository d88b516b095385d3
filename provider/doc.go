// Package provider implements a generic provider framework for the
// external engines chatalign consumes: speech recognition, speaker
// embedding, and forced alignment backends are all registered and
// selected through it.
//
// A provider is anything with a name and an availability check. Factories
// create providers from generic config maps, a Registry stores them, and a
// Manager combines a Registry with a Selector for runtime choice:
//
//	reg := transcription.NewRegistry()
//	reg.RegisterFactory("rev", rev.Factory())
//	mgr := provider.NewManager(reg, &provider.HealthCheckSelector[transcription.Provider]{})
//	mgr.Initialize("rev", cfg)
//	p, _ := mgr.Get(ctx)
//
// Cross-cutting behavior (logging, tracing) is added through
// Middleware[I, O] wrappers composed with Chain.
package provider
