package segment

import "encoding/json"

// Raw is the lenient wire form of an upstream segment record. All fields
// are optional at this layer; Collect decides which records are usable.
type Raw struct {
	ID          *string      `json:"id"`
	Text        *string      `json:"text"`
	StartMS     *int64       `json:"start"`
	EndMS       *int64       `json:"end"`
	Speaker     *string      `json:"speaker"`
	IsMissing   *bool        `json:"is_missing"`
	IsComment   *bool        `json:"is_comment"`
	WordTimings []WordTiming `json:"word_timings"`
}

// DecodeRaw parses a stored JSON array of segment records.
func DecodeRaw(data []byte) ([]Raw, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var raws []Raw
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

// Collect merges raw ASR-derived records with missing segments into the
// transcript's full segment set, ordered ascending by start time.
//
// Raw records without text, start, or end are dropped. Invalid timing is
// repaired, not rejected. The presence or absence of word timings on a raw
// record is preserved on the resulting segment.
func Collect(raws []Raw, missing []Segment) []Segment {
	out := make([]Segment, 0, len(raws)+len(missing))

	for _, r := range raws {
		if r.Text == nil || r.StartMS == nil || r.EndMS == nil {
			continue
		}
		seg := Segment{
			Text:        *r.Text,
			StartMS:     *r.StartMS,
			EndMS:       *r.EndMS,
			WordTimings: r.WordTimings,
		}
		if r.ID != nil {
			seg.ID = *r.ID
		}
		if r.Speaker != nil {
			seg.Speaker = *r.Speaker
		}
		if r.IsMissing != nil {
			seg.IsMissing = *r.IsMissing
		}
		if r.IsComment != nil {
			seg.IsComment = *r.IsComment
		}
		seg.Normalize()
		out = append(out, seg)
	}

	for _, m := range missing {
		m.IsMissing = true
		m.Normalize()
		out = append(out, m)
	}

	SortByStart(out)
	return out
}
