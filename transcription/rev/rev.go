package rev

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
	"sort"
	"strings"
	"time"

	"github.com/kbukum/chatalign/errors"
	"github.com/kbukum/chatalign/provider"
	"github.com/kbukum/chatalign/transcription"
)

const (
	// ProviderName is the registered name for the Rev AI provider.
	ProviderName = "rev"

	defaultBaseURL      = "https://api.rev.ai/speechtotext/v1"
	defaultTimeout      = 600 * time.Second
	defaultPollInterval = 5 * time.Second
)

// Config holds configuration for the Rev AI transcription provider.
type Config struct {
	APIKey       string        `json:"api_key"`
	BaseURL      string        `json:"base_url"`
	Timeout      time.Duration `json:"timeout"`
	PollInterval time.Duration `json:"poll_interval"`
}

// Provider implements transcription.Provider against the Rev AI
// asynchronous speech-to-text API. A transcription call submits a job,
// polls until it leaves the in-progress state, then fetches the
// speaker-attributed transcript.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates a new Rev AI transcription provider.
func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Provider{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Factory returns a provider.Factory that creates Rev AI Provider
// instances from a generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		rc := Config{}
		if v, ok := cfg["api_key"].(string); ok {
			rc.APIKey = v
		}
		if v, ok := cfg["base_url"].(string); ok {
			rc.BaseURL = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			rc.Timeout = v
		}
		if v, ok := cfg["poll_interval"].(time.Duration); ok {
			rc.PollInterval = v
		}
		return NewProvider(rc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the provider is configured. Rev AI is a
// hosted service, so configuration is the only local check possible.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.cfg.APIKey != ""
}

// Transcribe submits the audio file as a Rev AI job and blocks until
// the job completes or the context is cancelled.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if p.cfg.APIKey == "" {
		return nil, errors.MissingCredentials(ProviderName, "api_key")
	}

	jobID, err := p.submitJob(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := p.waitForJob(ctx, jobID); err != nil {
		return nil, err
	}

	return p.fetchTranscript(ctx, jobID)
}

func (p *Provider) submitJob(ctx context.Context, req transcription.Request) (string, error) {
	f, err := os.Open(req.AudioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("media", filepath.Base(req.AudioPath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("write audio data: %w", err)
	}

	options := jobOptions{}
	if req.Language != "" {
		options.Language = req.Language
	}
	if req.SpeakerCount > 0 {
		options.SpeakersCount = req.SpeakerCount
	}
	optJSON, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("encode job options: %w", err)
	}
	_ = writer.WriteField("options", string(optJSON))
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/jobs", &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("submit transcription job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("submit transcription job (status %d): %s", resp.StatusCode, string(body))
	}

	var job jobStatus
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return "", fmt.Errorf("decode job response: %w", err)
	}
	if job.ID == "" {
		return "", fmt.Errorf("job response missing id")
	}
	return job.ID, nil
}

func (p *Provider) waitForJob(ctx context.Context, jobID string) error {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		job, err := p.jobStatus(ctx, jobID)
		if err != nil {
			return err
		}
		switch job.Status {
		case "transcribed":
			return nil
		case "failed":
			return fmt.Errorf("transcription job failed: %s", job.Failure)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Provider) jobStatus(ctx context.Context, jobID string) (*jobStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/jobs/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("poll transcription job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("poll transcription job (status %d): %s", resp.StatusCode, string(body))
	}

	var job jobStatus
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("decode job status: %w", err)
	}
	return &job, nil
}

func (p *Provider) fetchTranscript(ctx context.Context, jobID string) (*transcription.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/jobs/"+jobID+"/transcript", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	httpReq.Header.Set("Accept", "application/vnd.rev.transcript.v1.0+json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch transcript (status %d): %s", resp.StatusCode, string(body))
	}

	var t apiTranscript
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return translate(&t), nil
}

// --- internal Rev AI API types ---

type jobOptions struct {
	Language      string `json:"language,omitempty"`
	SpeakersCount int    `json:"speakers_count,omitempty"`
}

type jobStatus struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Failure string `json:"failure_detail,omitempty"`
}

type apiTranscript struct {
	Monologues []apiMonologue `json:"monologues"`
}

type apiMonologue struct {
	Speaker  int          `json:"speaker"`
	Elements []apiElement `json:"elements"`
}

type apiElement struct {
	Type    string   `json:"type"` // "text" or "punct"
	Value   string   `json:"value"`
	Ts      *float64 `json:"ts,omitempty"`
	EndTs   *float64 `json:"end_ts,omitempty"`
	Confid  *float64 `json:"confidence,omitempty"`
}

// translate flattens the monologue structure into time-aligned
// segments, one per monologue, labelled by the numeric speaker index.
func translate(t *apiTranscript) *transcription.Response {
	var segments []transcription.Segment
	var full strings.Builder

	for _, m := range t.Monologues {
		var text strings.Builder
		var start, end float64
		haveStart := false
		for _, e := range m.Elements {
			text.WriteString(e.Value)
			if e.Ts != nil && !haveStart {
				start = *e.Ts
				haveStart = true
			}
			if e.EndTs != nil {
				end = *e.EndTs
			}
		}
		trimmed := strings.TrimSpace(text.String())
		if trimmed == "" {
			continue
		}
		if full.Len() > 0 {
			full.WriteString("\n")
		}
		full.WriteString(trimmed)
		segments = append(segments, transcription.Segment{
			Start:   start,
			End:     end,
			Text:    trimmed,
			Speaker: fmt.Sprintf("SPEAKER_%d", m.Speaker),
		})
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})

	duration := 0.0
	for _, s := range segments {
		if s.End > duration {
			duration = s.End
		}
	}

	return &transcription.Response{
		Text:     full.String(),
		Segments: segments,
		Duration: duration,
	}
}
