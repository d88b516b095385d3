package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apperrors "github.com/kbukum/chatalign/errors"
	"github.com/kbukum/chatalign/logger"
	"github.com/kbukum/chatalign/segment"
	"github.com/kbukum/chatalign/speakermap"
)

// Config holds store configuration.
type Config struct {
	// Path is the SQLite database file path.
	Path string `json:"path"`
	// LogQueries enables SQL statement logging.
	LogQueries bool `json:"log_queries"`
}

// Store wraps the database with typed operations for the domain
// records.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects to the SQLite database at the configured path and
// migrates the schema.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store: database path is required")
	}

	logLevel := gormlogger.Silent
	if cfg.LogQueries {
		logLevel = gormlogger.Info
	}
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if err := db.AutoMigrate(&AudioFile{}, &Transcript{}, &SpeakerMapping{}, &AlignmentTask{}); err != nil {
		return nil, fmt.Errorf("store: migrate schema: %w", err)
	}

	return &Store{db: db, log: logger.Get("store")}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// --- audio files ---

// CreateAudioFile inserts a new audio record.
func (s *Store) CreateAudioFile(ctx context.Context, af *AudioFile) error {
	if err := s.db.WithContext(ctx).Create(af).Error; err != nil {
		return apperrors.Database("create audio file", err)
	}
	return nil
}

// GetAudioFile fetches an audio record by id.
func (s *Store) GetAudioFile(ctx context.Context, id uuid.UUID) (*AudioFile, error) {
	var af AudioFile
	err := s.db.WithContext(ctx).First(&af, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("audio file", id.String())
	}
	if err != nil {
		return nil, apperrors.Database("get audio file", err)
	}
	return &af, nil
}

// --- transcripts ---

// CreateTranscript inserts a new transcript record.
func (s *Store) CreateTranscript(ctx context.Context, t *Transcript) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return apperrors.Database("create transcript", err)
	}
	return nil
}

// GetTranscript fetches a transcript by id.
func (s *Store) GetTranscript(ctx context.Context, id uuid.UUID) (*Transcript, error) {
	var t Transcript
	err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("transcript", id.String())
	}
	if err != nil {
		return nil, apperrors.Database("get transcript", err)
	}
	return &t, nil
}

// UpdateTranscriptContent replaces the transcript's CHAT text.
func (s *Store) UpdateTranscriptContent(ctx context.Context, id uuid.UUID, content string) error {
	res := s.db.WithContext(ctx).Model(&Transcript{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return apperrors.Database("update transcript content", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("transcript", id.String())
	}
	return nil
}

// ReplaceDiarization overwrites both segment timelines of the
// transcript in one transaction. Prior contents, including user edits
// to missing segments, are discarded.
func (s *Store) ReplaceDiarization(ctx context.Context, id uuid.UUID, segments, missing []segment.Segment, numSpeakers int) error {
	segJSON, err := json.Marshal(segments)
	if err != nil {
		return apperrors.Database("encode segments", err)
	}
	missJSON, err := json.Marshal(missing)
	if err != nil {
		return apperrors.Database("encode missing segments", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Transcript{}).Where("id = ?", id).Updates(map[string]interface{}{
			"diarization_data": segJSON,
			"missing_segments": missJSON,
			"num_speakers":     numSpeakers,
		})
		if res.Error != nil {
			return apperrors.Database("replace diarization", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("transcript", id.String())
		}
		return nil
	})
}

// Segments decodes the transcript's stored segment timelines.
func (s *Store) Segments(ctx context.Context, id uuid.UUID) (segments, missing []segment.Segment, err error) {
	t, err := s.GetTranscript(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if len(t.DiarizationData) > 0 {
		if err := json.Unmarshal(t.DiarizationData, &segments); err != nil {
			return nil, nil, apperrors.Database("decode segments", err)
		}
	}
	if len(t.MissingSegments) > 0 {
		if err := json.Unmarshal(t.MissingSegments, &missing); err != nil {
			return nil, nil, apperrors.Database("decode missing segments", err)
		}
	}
	return segments, missing, nil
}

// SaveMissingSegments overwrites only the missing-segment timeline.
func (s *Store) SaveMissingSegments(ctx context.Context, id uuid.UUID, missing []segment.Segment) error {
	missJSON, err := json.Marshal(missing)
	if err != nil {
		return apperrors.Database("encode missing segments", err)
	}
	res := s.db.WithContext(ctx).Model(&Transcript{}).Where("id = ?", id).Update("missing_segments", missJSON)
	if res.Error != nil {
		return apperrors.Database("save missing segments", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("transcript", id.String())
	}
	return nil
}

// --- speaker mappings ---

// ReplaceSpeakerMappings swaps the transcript's mapping set in one
// transaction: the old rows are deleted and the new set inserted.
func (s *Store) ReplaceSpeakerMappings(ctx context.Context, id uuid.UUID, mappings []speakermap.Mapping) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transcript_id = ?", id).Delete(&SpeakerMapping{}).Error; err != nil {
			return apperrors.Database("delete speaker mappings", err)
		}
		for _, m := range mappings {
			row := SpeakerMapping{
				TranscriptID: id,
				OriginalID:   m.OriginalID,
				Role:         m.Role,
				Name:         m.Name,
			}
			if err := tx.Create(&row).Error; err != nil {
				return apperrors.Database("insert speaker mapping", err)
			}
		}
		return nil
	})
}

// SpeakerMappings returns the transcript's active mapping set.
func (s *Store) SpeakerMappings(ctx context.Context, id uuid.UUID) ([]speakermap.Mapping, error) {
	var rows []SpeakerMapping
	if err := s.db.WithContext(ctx).Where("transcript_id = ?", id).Order("created_at").Find(&rows).Error; err != nil {
		return nil, apperrors.Database("get speaker mappings", err)
	}
	mappings := make([]speakermap.Mapping, len(rows))
	for i, r := range rows {
		mappings[i] = speakermap.Mapping{
			OriginalID: r.OriginalID,
			Role:       r.Role,
			Name:       r.Name,
		}
	}
	return mappings, nil
}

// --- alignment tasks ---

// CreateTask inserts a new alignment task.
func (s *Store) CreateTask(ctx context.Context, task *AlignmentTask) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return apperrors.Database("create alignment task", err)
	}
	return nil
}

// GetTask fetches an alignment task by id.
func (s *Store) GetTask(ctx context.Context, id uuid.UUID) (*AlignmentTask, error) {
	var task AlignmentTask
	err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("alignment task", id.String())
	}
	if err != nil {
		return nil, apperrors.Database("get alignment task", err)
	}
	return &task, nil
}

// UpdateTask persists the task's status, error, and word table in one
// transaction.
func (s *Store) UpdateTask(ctx context.Context, task *AlignmentTask) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&AlignmentTask{}).Where("id = ?", task.ID).Updates(map[string]interface{}{
			"status": task.Status,
			"error":  task.Error,
			"words":  task.Words,
		})
		if res.Error != nil {
			return apperrors.Database("update alignment task", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("alignment task", task.ID.String())
		}
		return nil
	})
}
