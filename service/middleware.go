package service

import (
	"context"

	"github.com/kbukum/chatalign/diarization"
	"github.com/kbukum/chatalign/provider"
	"github.com/kbukum/chatalign/transcription"
)

// diarizeCall adapts a diarization.Provider to the RequestResponse
// shape so the provider middleware applies to it.
type diarizeCall struct {
	p diarization.Provider
}

func (c diarizeCall) Name() string                         { return c.p.Name() }
func (c diarizeCall) IsAvailable(ctx context.Context) bool { return c.p.IsAvailable(ctx) }

func (c diarizeCall) Execute(ctx context.Context, req diarization.Request) (*diarization.Response, error) {
	return c.p.Diarize(ctx, req)
}

func (s *Service) execDiarize(p diarization.Provider) provider.RequestResponse[diarization.Request, *diarization.Response] {
	chain := provider.Chain(
		provider.WithLogging[diarization.Request, *diarization.Response](s.log),
		provider.WithTracing[diarization.Request, *diarization.Response](serviceName),
	)
	return chain(diarizeCall{p: p})
}

// transcribeCall adapts a transcription.Provider the same way.
type transcribeCall struct {
	p transcription.Provider
}

func (c transcribeCall) Name() string                         { return c.p.Name() }
func (c transcribeCall) IsAvailable(ctx context.Context) bool { return c.p.IsAvailable(ctx) }

func (c transcribeCall) Execute(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	return c.p.Transcribe(ctx, req)
}

func (s *Service) execTranscribe(p transcription.Provider) provider.RequestResponse[transcription.Request, *transcription.Response] {
	chain := provider.Chain(
		provider.WithLogging[transcription.Request, *transcription.Response](s.log),
		provider.WithTracing[transcription.Request, *transcription.Response](serviceName),
	)
	return chain(transcribeCall{p: p})
}
