package alignment

import (
	"fmt"
	"strings"

	"github.com/kbukum/chatalign/provider"
)

// Engine selects which forced-alignment backend to use.
type Engine string

const (
	// EngineAuto tries wav2vec first and falls back to whisper.
	EngineAuto Engine = "AUTO"
	// EngineWhisper forces the whisper backend.
	EngineWhisper Engine = "WHISPER"
	// EngineWav2Vec forces the wav2vec backend.
	EngineWav2Vec Engine = "WAV2VEC"
)

// Backend names as registered with the provider registry.
const (
	BackendWav2Vec = "wav2vec"
	BackendWhisper = "whisper"
)

// ParseEngine normalizes a user-supplied engine name. An empty value
// means Auto.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "AUTO":
		return EngineAuto, nil
	case "WHISPER":
		return EngineWhisper, nil
	case "WAV2VEC":
		return EngineWav2Vec, nil
	default:
		return "", fmt.Errorf("unknown alignment engine %q", s)
	}
}

// String returns the canonical engine name.
func (e Engine) String() string { return string(e) }

// Selector returns the provider selection strategy for the engine.
// Auto prefers wav2vec and falls back to whisper when it is down; a
// named engine pins its backend with no fallback.
func (e Engine) Selector() provider.Selector[Provider] {
	switch e {
	case EngineWhisper:
		return &provider.PrioritySelector[Provider]{Priority: []string{BackendWhisper}}
	case EngineWav2Vec:
		return &provider.PrioritySelector[Provider]{Priority: []string{BackendWav2Vec}}
	default:
		return &provider.PrioritySelector[Provider]{Priority: []string{BackendWav2Vec, BackendWhisper}}
	}
}
