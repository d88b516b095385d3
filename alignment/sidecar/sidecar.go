// Package sidecar implements alignment.Provider against an HTTP
// forced-alignment service. The same client serves both the wav2vec
// and whisper backends; only the configured name and base URL differ.
package sidecar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/chatalign/alignment"
	"github.com/kbukum/chatalign/provider"
)

const (
	defaultTimeout = 600 * time.Second
)

// Config holds configuration for an alignment sidecar.
type Config struct {
	// Name is the backend name to register under, e.g. "wav2vec".
	Name    string        `json:"name"`
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// Provider implements alignment.Provider using a forced-alignment
// HTTP sidecar.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates a new alignment sidecar provider.
func NewProvider(cfg Config) *Provider {
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

// Factory returns a provider.Factory that creates sidecar Provider
// instances from a generic config map.
func Factory() provider.Factory[alignment.Provider] {
	return func(cfg map[string]any) (alignment.Provider, error) {
		sc := Config{}
		if v, ok := cfg["name"].(string); ok {
			sc.Name = v
		}
		if v, ok := cfg["base_url"].(string); ok {
			sc.BaseURL = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			sc.Timeout = v
		}
		if sc.Name == "" {
			return nil, fmt.Errorf("alignment sidecar requires a name")
		}
		if sc.BaseURL == "" {
			return nil, fmt.Errorf("alignment sidecar requires a base url")
		}
		return NewProvider(sc), nil
	}
}

// Name returns the configured backend name.
func (p *Provider) Name() string { return p.cfg.Name }

// IsAvailable checks if the alignment sidecar is reachable.
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

// Align uploads the audio and optional transcript text and returns the
// aligned document.
func (p *Provider) Align(ctx context.Context, req alignment.Request) (*alignment.Response, error) {
	f, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", filepath.Base(req.AudioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}

	if req.Text != "" {
		_ = writer.WriteField("text", req.Text)
	}
	if req.Language != "" {
		_ = writer.WriteField("language", req.Language)
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/align", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("alignment request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("alignment error (status %d): %s", resp.StatusCode, string(body))
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode alignment response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("alignment error: %s", result.Error)
	}

	return translate(&result), nil
}

// --- internal sidecar API types ---

type apiResponse struct {
	Utterances []apiUtterance `json:"utterances"`
	Error      string         `json:"error,omitempty"`
}

type apiUtterance struct {
	Speaker string     `json:"speaker,omitempty"`
	Tokens  []apiToken `json:"tokens"`
}

type apiToken struct {
	Text    string `json:"text"`
	StartMS *int64 `json:"start_ms"`
	EndMS   *int64 `json:"end_ms"`
}

func translate(resp *apiResponse) *alignment.Response {
	utterances := make([]alignment.Utterance, len(resp.Utterances))
	for i, u := range resp.Utterances {
		tokens := make([]alignment.Token, len(u.Tokens))
		for j, tok := range u.Tokens {
			tokens[j] = alignment.Token{
				Text:    tok.Text,
				StartMS: tok.StartMS,
				EndMS:   tok.EndMS,
			}
		}
		utterances[i] = alignment.Utterance{
			Speaker: u.Speaker,
			Tokens:  tokens,
		}
	}
	return &alignment.Response{Document: alignment.Document{Utterances: utterances}}
}
