package service

import (
	"context"
	"fmt"

	"github.com/kbukum/chatalign/alignment"
	"github.com/kbukum/chatalign/alignment/sidecar"
	"github.com/kbukum/chatalign/config"
	"github.com/kbukum/chatalign/diarization"
	"github.com/kbukum/chatalign/diarization/cluster"
	"github.com/kbukum/chatalign/diarization/pyannote"
	"github.com/kbukum/chatalign/embedding"
	"github.com/kbukum/chatalign/embedding/speechbrain"
	"github.com/kbukum/chatalign/store"
	"github.com/kbukum/chatalign/transcription"
	"github.com/kbukum/chatalign/transcription/rev"
)

// Build assembles a fully wired Service from configuration: the
// store, the Rev AI transcriber, both diarization backends, and the
// alignment engines. Engines without configuration are still
// registered with their defaults; availability checks sort out what is
// actually reachable at call time.
func Build(ctx context.Context, cfg *config.Config) (*Service, error) {
	st, err := store.Open(store.Config{
		Path:       cfg.Database.Path,
		LogQueries: cfg.Database.LogQueries,
	})
	if err != nil {
		return nil, err
	}

	transcribers := transcription.NewManager()
	transcribers.Register(rev.ProviderName, rev.Factory())
	if err := transcribers.Initialize(ctx, rev.ProviderName, cfg.Engines.Rev.Map()); err != nil {
		return nil, fmt.Errorf("wire rev provider: %w", err)
	}

	embedder := speechbrain.NewProvider(speechbrain.Config{
		BaseURL: cfg.Engines.Embedding.BaseURL,
		Timeout: cfg.Engines.Embedding.Timeout,
	})

	diarizers := diarization.NewManager()
	diarizers.Register(pyannote.ProviderName, pyannote.Factory())
	if err := diarizers.Initialize(ctx, pyannote.ProviderName, cfg.Engines.Pyannote.Map()); err != nil {
		return nil, fmt.Errorf("wire pyannote provider: %w", err)
	}
	diarizers.Register(cluster.ProviderName, cluster.Factory())
	clusterCfg := map[string]any{"embedder": embedding.Provider(embedder)}
	if err := diarizers.Initialize(ctx, cluster.ProviderName, clusterCfg); err != nil {
		return nil, fmt.Errorf("wire cluster provider: %w", err)
	}

	runner := alignment.NewRunner()
	if cfg.Engines.Wav2Vec.BaseURL != "" {
		runner.Register(alignment.BackendWav2Vec, sidecar.NewProvider(sidecar.Config{
			Name:    alignment.BackendWav2Vec,
			BaseURL: cfg.Engines.Wav2Vec.BaseURL,
			Timeout: cfg.Engines.Wav2Vec.Timeout,
		}))
	}
	if cfg.Engines.Whisper.BaseURL != "" {
		runner.Register(alignment.BackendWhisper, sidecar.NewProvider(sidecar.Config{
			Name:    alignment.BackendWhisper,
			BaseURL: cfg.Engines.Whisper.BaseURL,
			Timeout: cfg.Engines.Whisper.Timeout,
		}))
	}

	return New(st,
		WithDiarizers(diarizers),
		WithTranscribers(transcribers),
		WithAligner(runner),
	), nil
}
