package chat

import (
	"fmt"
	"strings"
)

// Header keys recognized by the parser. Any other @-prefixed line is
// carried through verbatim.
const (
	KeyParticipants = "@Participants"
	KeyID           = "@ID"
	KeyMedia        = "@Media"
	KeyLanguages    = "@Languages"
)

// Participant is one speaker declared in the transcript header.
type Participant struct {
	Code string // short speaker code, e.g. MOT
	Role string // role label, e.g. Mother
}

// line is a single transcript line. Header lines keep their parsed key
// so they can be replaced; every line keeps its raw text so
// serialization is lossless for content the parser does not model.
type line struct {
	key string
	raw string
}

// Document is a parsed CHAT transcript: an ordered list of lines with
// header lines tagged by key.
type Document struct {
	lines []line
}

// Parse splits CHAT text into a Document. No line is discarded or
// reformatted.
func Parse(text string) *Document {
	doc := &Document{}
	for _, raw := range strings.Split(text, "\n") {
		doc.lines = append(doc.lines, line{key: headerKey(raw), raw: raw})
	}
	return doc
}

// headerKey returns the @-key of a header line, or empty for body
// lines.
func headerKey(raw string) string {
	if !strings.HasPrefix(raw, "@") {
		return ""
	}
	idx := strings.IndexByte(raw, ':')
	if idx < 0 {
		return ""
	}
	return raw[:idx]
}

// Serialize joins the document back into CHAT text.
func (d *Document) Serialize() string {
	parts := make([]string, len(d.lines))
	for i, l := range d.lines {
		parts[i] = l.raw
	}
	return strings.Join(parts, "\n")
}

// Participants returns the speakers declared on the first
// @Participants line. Each comma-separated entry is expected to start
// with the speaker code followed by its role description.
func (d *Document) Participants() []Participant {
	for _, l := range d.lines {
		if l.key != KeyParticipants {
			continue
		}
		return parseParticipants(l.raw)
	}
	return nil
}

func parseParticipants(raw string) []Participant {
	_, value, ok := strings.Cut(raw, ":")
	if !ok {
		return nil
	}
	var out []Participant
	for _, entry := range strings.Split(value, ",") {
		fields := strings.Fields(entry)
		if len(fields) == 0 {
			continue
		}
		p := Participant{Code: fields[0]}
		if len(fields) > 1 {
			p.Role = strings.Join(fields[1:], " ")
		}
		out = append(out, p)
	}
	return out
}

// SetParticipants rewrites the @Participants line and the @ID block
// from the given speakers. The first @Participants line and the first
// @ID line anchor the rewrite positions; duplicate lines of either
// kind elsewhere in the file are dropped. Every other line is
// preserved unchanged. When the header has no such lines they are
// inserted at the top of the file.
func (d *Document) SetParticipants(participants []Participant) {
	entries := make([]string, len(participants))
	for i, p := range participants {
		entries[i] = strings.TrimSpace(p.Code + " " + p.Role)
	}
	participantsLine := line{
		key: KeyParticipants,
		raw: KeyParticipants + ":\t" + strings.Join(entries, ", "),
	}
	idLines := make([]line, len(participants))
	for i, p := range participants {
		idLines[i] = line{key: KeyID, raw: idLine(p)}
	}

	var out []line
	placedParticipants := false
	placedIDs := false
	for _, l := range d.lines {
		switch l.key {
		case KeyParticipants:
			if !placedParticipants {
				out = append(out, participantsLine)
				placedParticipants = true
			}
		case KeyID:
			if !placedIDs {
				out = append(out, idLines...)
				placedIDs = true
			}
		default:
			out = append(out, l)
		}
	}
	if !placedParticipants || !placedIDs {
		var prefix []line
		if !placedParticipants {
			prefix = append(prefix, participantsLine)
		}
		if !placedIDs {
			prefix = append(prefix, idLines...)
		}
		out = append(prefix, out...)
	}
	d.lines = out
}

// idLine builds a CHAT @ID declaration for one participant. The field
// layout is language|corpus|code|age|sex|group|SES|role|education|custom.
func idLine(p Participant) string {
	return fmt.Sprintf("%s:\teng|corpus|%s|||||%s|||", KeyID, p.Code, p.Role)
}

// StripSpeakers removes the *CODE: speaker markers from utterance
// lines, returning plain text. Header lines and dependent-tier lines
// (prefixed % or @) are dropped entirely.
func StripSpeakers(text string) string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		if strings.HasPrefix(raw, "@") || strings.HasPrefix(raw, "%") {
			continue
		}
		if strings.HasPrefix(raw, "*") {
			if _, rest, ok := strings.Cut(raw, ":"); ok {
				out = append(out, strings.TrimSpace(rest))
				continue
			}
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}
