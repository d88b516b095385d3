package segment

import (
	"encoding/json"
	"sort"
)

// MinDurationMS is the minimum segment duration. Segments whose end does
// not come after their start are extended by this amount instead of being
// rejected.
const MinDurationMS int64 = 100

// WordTiming is the timing of a single word within a segment.
type WordTiming struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is a time-bounded unit of speech or text.
//
// WordTimings distinguishes nil (no timing data) from an empty non-nil
// slice (timing data computed, no words survived); both states survive a
// JSON round trip.
type Segment struct {
	ID          string
	Text        string
	StartMS     int64
	EndMS       int64
	Speaker     string
	IsMissing   bool
	IsComment   bool
	WordTimings []WordTiming
}

// segmentJSON is the wire form. WordTimings is a pointer so that a nil
// slice is omitted while an empty one is serialized as [].
type segmentJSON struct {
	ID          string        `json:"id,omitempty"`
	Text        string        `json:"text"`
	StartMS     int64         `json:"start"`
	EndMS       int64         `json:"end"`
	Speaker     string        `json:"speaker,omitempty"`
	IsMissing   bool          `json:"is_missing,omitempty"`
	IsComment   bool          `json:"is_comment,omitempty"`
	WordTimings *[]WordTiming `json:"word_timings,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (s Segment) MarshalJSON() ([]byte, error) {
	out := segmentJSON{
		ID:        s.ID,
		Text:      s.Text,
		StartMS:   s.StartMS,
		EndMS:     s.EndMS,
		Speaker:   s.Speaker,
		IsMissing: s.IsMissing,
		IsComment: s.IsComment,
	}
	if s.WordTimings != nil {
		out.WordTimings = &s.WordTimings
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var in segmentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.ID = in.ID
	s.Text = in.Text
	s.StartMS = in.StartMS
	s.EndMS = in.EndMS
	s.Speaker = in.Speaker
	s.IsMissing = in.IsMissing
	s.IsComment = in.IsComment
	if in.WordTimings != nil {
		s.WordTimings = *in.WordTimings
	} else {
		s.WordTimings = nil
	}
	return nil
}

// Normalize repairs invalid timing in place: a segment whose end does not
// come after its start has its end extended by MinDurationMS.
func (s *Segment) Normalize() {
	if s.EndMS <= s.StartMS {
		s.EndMS = s.StartMS + MinDurationMS
	}
}

// Duration returns the segment duration in milliseconds.
func (s *Segment) Duration() int64 {
	return s.EndMS - s.StartMS
}

// SortByStart orders segments ascending by start time. The sort is stable
// so equal starts keep their input order.
func SortByStart(segs []Segment) {
	sort.SliceStable(segs, func(i, j int) bool {
		return segs[i].StartMS < segs[j].StartMS
	})
}
