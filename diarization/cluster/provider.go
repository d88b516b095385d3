package cluster

import (
	"context"
	"fmt"
	"sort"

	"github.com/kbukum/chatalign/audio"
	"github.com/kbukum/chatalign/diarization"
	"github.com/kbukum/chatalign/embedding"
	"github.com/kbukum/chatalign/errors"
	"github.com/kbukum/chatalign/logger"
	"github.com/kbukum/chatalign/provider"
)

const (
	// ProviderName is the registered name for the clustering provider.
	ProviderName = "cluster"

	// segmentsPerSpeaker drives the speaker-count heuristic: one
	// speaker is assumed per this many speech windows.
	segmentsPerSpeaker = 15
	minSpeakers        = 2
	maxSpeakers        = 5
)

// Provider implements diarization.Provider by embedding speech windows
// with a speaker-embedding backend and clustering the embeddings.
type Provider struct {
	embedder embedding.Provider
	log      *logger.Logger
}

// NewProvider creates a clustering diarization provider backed by the
// given embedding provider.
func NewProvider(embedder embedding.Provider) *Provider {
	return &Provider{
		embedder: embedder,
		log:      logger.Get("diarization"),
	}
}

// Factory returns a provider.Factory for the clustering provider. The
// embedding backend must be supplied under the "embedder" key.
func Factory() provider.Factory[diarization.Provider] {
	return func(cfg map[string]any) (diarization.Provider, error) {
		embedder, ok := cfg["embedder"].(embedding.Provider)
		if !ok || embedder == nil {
			return nil, fmt.Errorf("cluster provider requires an embedder")
		}
		return NewProvider(embedder), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the embedding backend is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.embedder.IsAvailable(ctx)
}

// Diarize segments the audio by speaker. The audio is split into
// overlapping speech windows, each window is embedded, and the
// embeddings are clustered into speaker groups. Any stage failure
// aborts the whole run; a window whose embedding fails is dropped, but
// if every window fails the run fails.
func (p *Provider) Diarize(ctx context.Context, req diarization.Request) (*diarization.Response, error) {
	wf, err := audio.DecodeWAVFile(req.AudioPath)
	if err != nil {
		return nil, errors.EngineFailed(ProviderName, err)
	}

	windows := detectSpeech(wf)
	if len(windows) == 0 {
		return nil, errors.EngineFailed(ProviderName, fmt.Errorf("no speech windows in %s", req.AudioPath))
	}

	var vectors [][]float64
	var kept []window
	for _, w := range windows {
		resp, err := p.embedder.Embed(ctx, embedding.Request{
			Samples:    wf.Slice(w.Start, w.End),
			SampleRate: wf.SampleRate,
		})
		if err != nil {
			p.log.Warn("dropping window after embedding failure", logger.Fields(
				logger.FieldProvider, p.embedder.Name(),
				logger.FieldError, err.Error(),
			))
			continue
		}
		vectors = append(vectors, resp.Vector)
		kept = append(kept, w)
	}
	if len(vectors) == 0 {
		return nil, errors.EngineFailed(ProviderName, fmt.Errorf("all %d windows failed to embed", len(windows)))
	}

	k := p.speakerCount(req, len(vectors))
	labels, err := agglomerate(vectors, k)
	if err != nil {
		return nil, errors.EngineFailed(ProviderName, err)
	}

	segments := make([]diarization.Segment, len(kept))
	numSpeakers := 0
	for i, w := range kept {
		if labels[i]+1 > numSpeakers {
			numSpeakers = labels[i] + 1
		}
		segments[i] = diarization.Segment{
			Speaker: fmt.Sprintf("SPEAKER_%d", labels[i]),
			Start:   w.Start,
			End:     w.End,
		}
	}
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})

	p.log.Info("diarization complete", logger.Fields(
		logger.FieldSegments, len(segments),
		logger.FieldSpeakers, numSpeakers,
	))

	return &diarization.Response{
		Segments:    segments,
		NumSpeakers: numSpeakers,
	}, nil
}

// speakerCount resolves the number of clusters to form. An explicit
// request wins; otherwise one speaker is estimated per fifteen windows,
// clamped to the request bounds or the built-in [2, 5] range.
func (p *Provider) speakerCount(req diarization.Request, n int) int {
	if req.NumSpeakers > 0 {
		return req.NumSpeakers
	}
	lo, hi := minSpeakers, maxSpeakers
	if req.MinSpeakers > 0 {
		lo = req.MinSpeakers
	}
	if req.MaxSpeakers > 0 {
		hi = req.MaxSpeakers
	}
	k := roundHalf(float64(n) / segmentsPerSpeaker)
	if k < lo {
		k = lo
	}
	if k > hi {
		k = hi
	}
	return k
}
