package diarization

import (
	"context"

	"github.com/kbukum/chatalign/provider"
)

// Provider is the interface that diarization backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Diarize partitions audio into speaker-attributed segments.
	Diarize(ctx context.Context, req Request) (*Response, error)
}

// NewRegistry creates a new provider registry for diarization providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}

// NewManager creates a provider manager with health-check selection.
func NewManager() *provider.Manager[Provider] {
	return provider.NewManager(NewRegistry(), &provider.HealthCheckSelector[Provider]{})
}
