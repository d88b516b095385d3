package speakermap

import (
	"strings"

	"github.com/kbukum/chatalign/chat"
)

// Mapping binds one engine-assigned speaker label to a transcript
// role.
type Mapping struct {
	OriginalID string `json:"original_id"` // e.g. SPEAKER_0 or PAR0
	Role       string `json:"chat_role"`   // e.g. MOT
	Name       string `json:"name,omitempty"`
}

// Apply substitutes every *<original>: utterance marker in the
// transcript text with the mapped *<role>: marker. Lines without a
// marker pass through unchanged. Substitution is textual and
// idempotent as long as no original id doubles as another mapping's
// role; callers own that guarantee.
func Apply(text string, mappings []Mapping) string {
	for _, m := range mappings {
		if m.OriginalID == "" || m.Role == "" || m.OriginalID == m.Role {
			continue
		}
		text = strings.ReplaceAll(text, "*"+m.OriginalID+":", "*"+m.Role+":")
	}
	return text
}

// RewriteHeader replaces the transcript's participant declarations
// with the mapped roles. The @Participants line and @ID block are
// rebuilt from the mapping set; every other line survives untouched.
func RewriteHeader(text string, mappings []Mapping) string {
	doc := chat.Parse(text)
	participants := make([]chat.Participant, 0, len(mappings))
	for _, m := range mappings {
		if m.Role == "" {
			continue
		}
		role := m.Name
		if role == "" {
			role = roleDescription(m.Role)
		}
		participants = append(participants, chat.Participant{Code: m.Role, Role: role})
	}
	if len(participants) == 0 {
		return text
	}
	doc.SetParticipants(participants)
	return doc.Serialize()
}

// roleDescription expands common CHAT speaker codes to their standard
// role names. Unknown codes fall back to Participant.
func roleDescription(code string) string {
	switch code {
	case "MOT":
		return "Mother"
	case "FAT":
		return "Father"
	case "CHI":
		return "Target_Child"
	case "INV":
		return "Investigator"
	case "PAR":
		return "Participant"
	default:
		return "Participant"
	}
}
