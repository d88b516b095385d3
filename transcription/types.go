package transcription

import "github.com/kbukum/chatalign/segment"

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is the path to the audio file to transcribe.
	AudioPath string `json:"audio_path"`
	// Language is the expected language of the audio (e.g. "en").
	Language string `json:"language,omitempty"`
	// SpeakerCount hints the expected number of speakers, when known.
	SpeakerCount int `json:"speaker_count,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// Segments contains time-aligned transcript segments.
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
	// Speaker is the identified speaker label, if available.
	Speaker string `json:"speaker,omitempty"`
}

// ToSegment converts the second-based ASR segment into the
// millisecond-based storage form.
func (s Segment) ToSegment() segment.Segment {
	return segment.Segment{
		Text:    s.Text,
		StartMS: int64(s.Start * 1000),
		EndMS:   int64(s.End * 1000),
		Speaker: s.Speaker,
	}
}

// ToSegments converts a slice of ASR segments to storage form.
func ToSegments(in []Segment) []segment.Segment {
	out := make([]segment.Segment, len(in))
	for i, s := range in {
		out[i] = s.ToSegment()
	}
	return out
}
