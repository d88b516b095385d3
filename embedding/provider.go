package embedding

import (
	"context"

	"github.com/kbukum/chatalign/provider"
)

// Request holds one stretch of mono audio to embed.
type Request struct {
	// Samples is mono PCM normalized to [-1, 1].
	Samples []float64
	// SampleRate is the sample rate of Samples in Hz.
	SampleRate int
}

// Response holds the computed speaker embedding.
type Response struct {
	// Vector is the fixed-dimension speaker embedding.
	Vector []float64 `json:"vector"`
}

// Provider is the interface that speaker embedding backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Embed computes a fixed-dimension speaker embedding for the audio.
	Embed(ctx context.Context, req Request) (*Response, error)
}

// NewRegistry creates a new provider registry for embedding providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
