package pyannote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/chatalign/diarization"
)

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF fixture"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestName(t *testing.T) {
	if NewProvider(Config{}).Name() != "pyannote" {
		t.Error("unexpected provider name")
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
}

func TestDiarize(t *testing.T) {
	var gotNumSpeakers string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/diarize" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("audio"); err != nil {
			http.Error(w, "missing audio field", http.StatusBadRequest)
			return
		}
		gotNumSpeakers = r.FormValue("num_speakers")
		json.NewEncoder(w).Encode(apiResponse{
			Segments: []apiSegment{
				{SpeakerID: "SPEAKER_1", StartTime: 3.0, EndTime: 5.5},
				{SpeakerID: "SPEAKER_0", StartTime: 0.0, EndTime: 2.5},
			},
			NumSpeakers: 2,
		})
	}))
	defer server.Close()

	p := NewProvider(Config{BaseURL: server.URL})
	resp, err := p.Diarize(context.Background(), diarization.Request{
		AudioPath:   writeAudioFixture(t),
		NumSpeakers: 2,
	})
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	if gotNumSpeakers != "2" {
		t.Errorf("num_speakers field = %q, want 2", gotNumSpeakers)
	}
	if resp.NumSpeakers != 2 {
		t.Errorf("NumSpeakers = %d, want 2", resp.NumSpeakers)
	}
	if len(resp.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(resp.Segments))
	}
	if resp.Segments[0].Speaker != "SPEAKER_0" || resp.Segments[0].Start != 0.0 {
		t.Errorf("segments not sorted by start time: %+v", resp.Segments)
	}
}

func TestDiarizeSidecarError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiResponse{Error: "pipeline not loaded"})
	}))
	defer server.Close()

	p := NewProvider(Config{BaseURL: server.URL})
	if _, err := p.Diarize(context.Background(), diarization.Request{AudioPath: writeAudioFixture(t)}); err == nil {
		t.Fatal("expected error from sidecar error field")
	}
}

func TestDiarizeMissingFile(t *testing.T) {
	p := NewProvider(Config{BaseURL: "http://localhost:1"})
	if _, err := p.Diarize(context.Background(), diarization.Request{AudioPath: "no-such.wav"}); err == nil {
		t.Fatal("expected error for missing file")
	}
}
