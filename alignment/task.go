package alignment

// Status tracks an alignment task through its lifecycle. A task moves
// from Pending to Processing once picked up, then to exactly one of
// Completed or Failed. The terminal states are final; a new attempt
// means a new task.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Task is one forced-alignment run over an audio file.
type Task struct {
	ID string `json:"id"`
	// AudioPath is the audio file to align.
	AudioPath string `json:"audio_path"`
	// TranscriptPath points at an explicitly supplied companion
	// transcript file, when the caller uploaded one.
	TranscriptPath string `json:"transcript_path,omitempty"`
	// TranscriptText holds the linked transcript body, used when no
	// transcript file is available. Speaker markers are stripped
	// before alignment.
	TranscriptText string `json:"transcript_text,omitempty"`
	// Language is the expected language of the audio.
	Language string `json:"language,omitempty"`
	// Engine selects the alignment backend.
	Engine Engine `json:"engine"`

	Status Status `json:"status"`
	// Error carries the failure message verbatim when Status is
	// Failed.
	Error string `json:"error,omitempty"`
	// Words is the flattened word-timing table of a completed task.
	Words []WordTimestamp `json:"words,omitempty"`
}
