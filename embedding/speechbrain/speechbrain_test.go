package speechbrain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kbukum/chatalign/embedding"
)

func TestName(t *testing.T) {
	p := NewProvider(Config{})
	if p.Name() != "speechbrain" {
		t.Errorf("Name() = %q, want speechbrain", p.Name())
	}
}

func TestDefaults(t *testing.T) {
	p := NewProvider(Config{})
	if p.cfg.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", p.cfg.BaseURL, defaultBaseURL)
	}
	if p.cfg.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", p.cfg.Timeout, defaultTimeout)
	}
}

func TestIsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := NewProvider(Config{BaseURL: server.URL})
	if !p.IsAvailable(context.Background()) {
		t.Error("expected provider to be available")
	}

	server.Close()
	if p.IsAvailable(context.Background()) {
		t.Error("expected provider to be unavailable after server close")
	}
}

func TestEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("audio")
		if err != nil {
			http.Error(w, "missing audio field", http.StatusBadRequest)
			return
		}
		file.Close()
		json.NewEncoder(w).Encode(embedResponse{
			Embedding: []float64{0.1, 0.2, 0.3},
		})
	}))
	defer server.Close()

	p := NewProvider(Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	resp, err := p.Embed(context.Background(), embedding.Request{
		Samples:    make([]float64, 16000),
		SampleRate: 16000,
	})
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	if len(resp.Vector) != 3 {
		t.Errorf("Vector length = %d, want 3", len(resp.Vector))
	}
	if resp.Vector[1] != 0.2 {
		t.Errorf("Vector[1] = %v, want 0.2", resp.Vector[1])
	}
}

func TestEmbedSidecarError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Error: "model not loaded"})
	}))
	defer server.Close()

	p := NewProvider(Config{BaseURL: server.URL})
	_, err := p.Embed(context.Background(), embedding.Request{
		Samples:    make([]float64, 100),
		SampleRate: 16000,
	})
	if err == nil {
		t.Fatal("expected error from sidecar error field")
	}
}

func TestEmbedHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewProvider(Config{BaseURL: server.URL})
	_, err := p.Embed(context.Background(), embedding.Request{
		Samples:    make([]float64, 100),
		SampleRate: 16000,
	})
	if err == nil {
		t.Fatal("expected error from HTTP 500")
	}
}

func TestEmbedRejectsEmptyInput(t *testing.T) {
	p := NewProvider(Config{})
	if _, err := p.Embed(context.Background(), embedding.Request{SampleRate: 16000}); err == nil {
		t.Error("expected error for empty samples")
	}
	if _, err := p.Embed(context.Background(), embedding.Request{Samples: []float64{0.1}}); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestFactory(t *testing.T) {
	factory := Factory()
	p, err := factory(map[string]any{
		"base_url": "http://example.com:9000",
		"timeout":  30 * time.Second,
	})
	if err != nil {
		t.Fatalf("factory error: %v", err)
	}
	sp, ok := p.(*Provider)
	if !ok {
		t.Fatal("factory did not return a *Provider")
	}
	if sp.cfg.BaseURL != "http://example.com:9000" {
		t.Errorf("BaseURL = %q", sp.cfg.BaseURL)
	}
	if sp.cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", sp.cfg.Timeout)
	}
}
