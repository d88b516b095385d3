package alignment

import (
	"context"

	"github.com/kbukum/chatalign/provider"
)

// Token is one aligned word with optional millisecond timing. Engines
// leave the timing nil for tokens they could not place.
type Token struct {
	Text    string `json:"text"`
	StartMS *int64 `json:"start_ms,omitempty"`
	EndMS   *int64 `json:"end_ms,omitempty"`
}

// Utterance is an ordered run of tokens attributed to one speaker.
type Utterance struct {
	Speaker string  `json:"speaker,omitempty"`
	Tokens  []Token `json:"tokens"`
}

// Document is the aligned form of a transcript: ordered utterances,
// each with ordered timed tokens.
type Document struct {
	Utterances []Utterance `json:"utterances"`
}

// WordTimestamp is one row of the flattened word-timing table. Times
// are seconds; UtteranceID counts utterances from one.
type WordTimestamp struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	UtteranceID int     `json:"utterance_id"`
}

// Request holds parameters for a forced-alignment call.
type Request struct {
	// AudioPath is the path to the audio file to align.
	AudioPath string `json:"audio_path"`
	// Text is the transcript to align against. Empty text asks the
	// engine to transcribe and align in one pass.
	Text string `json:"text,omitempty"`
	// Language is the expected language of the audio (e.g. "en").
	Language string `json:"language,omitempty"`
}

// Response holds the result of a forced-alignment call.
type Response struct {
	Document Document `json:"document"`
}

// Provider is the interface that alignment engines must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Align aligns audio against transcript text and returns the
	// document with timed tokens.
	Align(ctx context.Context, req Request) (*Response, error)
}

// NewRegistry creates a new provider registry for alignment engines.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
