package speechbrain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/kbukum/chatalign/audio"
	"github.com/kbukum/chatalign/embedding"
	"github.com/kbukum/chatalign/provider"
)

const (
	// ProviderName is the registered name for the Speechbrain provider.
	ProviderName = "speechbrain"

	defaultBaseURL = "http://localhost:8389"
	defaultTimeout = 120 * time.Second
)

// Config holds configuration for the Speechbrain embedding sidecar.
type Config struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// Provider implements embedding.Provider using a Speechbrain ECAPA
// HTTP sidecar.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates a new Speechbrain embedding provider.
func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Provider{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Factory returns a provider.Factory that creates Speechbrain Provider
// instances from a generic config map.
func Factory() provider.Factory[embedding.Provider] {
	return func(cfg map[string]any) (embedding.Provider, error) {
		pc := Config{}
		if v, ok := cfg["base_url"].(string); ok {
			pc.BaseURL = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			pc.Timeout = v
		}
		return NewProvider(pc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the Speechbrain sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Embed sends audio to the sidecar and returns the speaker embedding.
func (p *Provider) Embed(ctx context.Context, req embedding.Request) (*embedding.Response, error) {
	if len(req.Samples) == 0 {
		return nil, fmt.Errorf("empty audio segment")
	}
	if req.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", req.SampleRate)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", "segment.wav")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := audio.EncodeWAV(part, req.Samples, req.SampleRate); err != nil {
		return nil, fmt.Errorf("encode segment: %w", err)
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/embed", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding error (status %d): %s", resp.StatusCode, string(body))
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}

	if result.Error != "" {
		return nil, fmt.Errorf("embedding error: %s", result.Error)
	}
	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("sidecar returned an empty embedding")
	}

	return &embedding.Response{Vector: result.Embedding}, nil
}

// --- internal sidecar API types ---

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}
