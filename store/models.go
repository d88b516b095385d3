package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel contains common fields for all database models.
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// BeforeCreate generates a UUID if not already set.
func (b *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// AudioFile is one uploaded or referenced audio recording.
type AudioFile struct {
	BaseModel
	Name        string  `gorm:"not null"`
	Path        string  `gorm:"not null;uniqueIndex"`
	DurationSec float64 `gorm:"default:0"`
}

// Transcript holds the CHAT text and the segment timelines for one
// audio file. DiarizationData and MissingSegments are JSON documents
// replaced wholesale on each diarization run.
type Transcript struct {
	BaseModel
	AudioFileID     uuid.UUID `gorm:"type:uuid;index;not null"`
	AudioFile       AudioFile `gorm:"foreignKey:AudioFileID"`
	Content         string    `gorm:"type:text"`
	DiarizationData []byte    `gorm:"type:text"`
	MissingSegments []byte    `gorm:"type:text"`
	NumSpeakers     int       `gorm:"default:0"`
}

// SpeakerMapping binds one engine speaker label to a transcript role
// for a given transcript.
type SpeakerMapping struct {
	BaseModel
	TranscriptID uuid.UUID `gorm:"type:uuid;index;not null"`
	OriginalID   string    `gorm:"not null"`
	Role         string    `gorm:"not null"`
	Name         string
}

// AlignmentTask records one forced-alignment run and its outcome.
// Words holds the flattened word-timing table as JSON once the task
// completes.
type AlignmentTask struct {
	BaseModel
	AudioFileID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	TranscriptID *uuid.UUID `gorm:"type:uuid;index"`
	Engine       string     `gorm:"not null;default:AUTO"`
	Status       string     `gorm:"not null;default:PENDING"`
	Error        string     `gorm:"type:text"`
	Words        []byte     `gorm:"type:text"`
}
