package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/kbukum/chatalign/alignment"
	"github.com/kbukum/chatalign/diarization"
	"github.com/kbukum/chatalign/errors"
	"github.com/kbukum/chatalign/logger"
	"github.com/kbukum/chatalign/provider"
	"github.com/kbukum/chatalign/reconcile"
	"github.com/kbukum/chatalign/segment"
	"github.com/kbukum/chatalign/speakermap"
	"github.com/kbukum/chatalign/store"
	"github.com/kbukum/chatalign/transcription"
)

const serviceName = "chatalign"

// Service wires the domain packages to the store and the engine
// providers.
type Service struct {
	store       *store.Store
	diarizers   *provider.Manager[diarization.Provider]
	transcriber *provider.Manager[transcription.Provider]
	aligner     *alignment.Runner
	log         *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithDiarizers sets the diarization provider manager.
func WithDiarizers(m *provider.Manager[diarization.Provider]) Option {
	return func(s *Service) { s.diarizers = m }
}

// WithTranscribers sets the transcription provider manager.
func WithTranscribers(m *provider.Manager[transcription.Provider]) Option {
	return func(s *Service) { s.transcriber = m }
}

// WithAligner sets the alignment runner.
func WithAligner(r *alignment.Runner) Option {
	return func(s *Service) { s.aligner = r }
}

// New creates a Service over the given store.
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		log:   logger.Get("service"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// RunDiarization diarizes the transcript's audio and reconciles the
// result with the stored recognized segments. Both stored timelines
// are replaced wholesale; prior user edits to missing segments do not
// survive a re-run.
func (s *Service) RunDiarization(ctx context.Context, transcriptID uuid.UUID, req diarization.Request) error {
	t, err := s.store.GetTranscript(ctx, transcriptID)
	if err != nil {
		return err
	}
	if req.AudioPath == "" {
		af, err := s.store.GetAudioFile(ctx, t.AudioFileID)
		if err != nil {
			return err
		}
		req.AudioPath = af.Path
	}

	p, err := s.diarizers.Get(ctx)
	if err != nil {
		return errors.EngineUnavailable("diarization")
	}

	resp, err := s.execDiarize(p).Execute(ctx, req)
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return err
		}
		return errors.EngineFailed(p.Name(), err)
	}

	existing, _, err := s.store.Segments(ctx, transcriptID)
	if err != nil {
		return err
	}

	diarized := make([]segment.Segment, len(resp.Segments))
	for i, d := range resp.Segments {
		diarized[i] = segment.Segment{
			StartMS: d.StartMS(),
			EndMS:   d.EndMS(),
			Speaker: d.Speaker,
			Text:    d.Text,
		}
	}

	merged := reconcile.Reconcile(diarized, existing)
	var withText, missing []segment.Segment
	for _, m := range merged {
		if m.IsMissing {
			missing = append(missing, m)
		} else {
			withText = append(withText, m)
		}
	}

	if len(existing) > 0 {
		s.log.Warn("replacing segment timelines wholesale, prior edits are discarded", logger.Fields(
			logger.FieldTranscriptID, transcriptID.String(),
			logger.FieldSegments, len(existing),
		))
	}

	if err := s.store.ReplaceDiarization(ctx, transcriptID, withText, missing, resp.NumSpeakers); err != nil {
		return err
	}

	s.log.Info("diarization stored", logger.Fields(
		logger.FieldTranscriptID, transcriptID.String(),
		logger.FieldSegments, len(withText),
		logger.FieldMissing, len(missing),
		logger.FieldSpeakers, resp.NumSpeakers,
	))
	return nil
}

// RunTranscription recognizes the transcript's audio and stores the
// text and time-aligned segments.
func (s *Service) RunTranscription(ctx context.Context, transcriptID uuid.UUID, req transcription.Request) error {
	t, err := s.store.GetTranscript(ctx, transcriptID)
	if err != nil {
		return err
	}
	if req.AudioPath == "" {
		af, err := s.store.GetAudioFile(ctx, t.AudioFileID)
		if err != nil {
			return err
		}
		req.AudioPath = af.Path
	}

	p, err := s.transcriber.Get(ctx)
	if err != nil {
		return errors.EngineUnavailable("transcription")
	}

	resp, err := s.execTranscribe(p).Execute(ctx, req)
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return err
		}
		return errors.EngineFailed(p.Name(), err)
	}

	segments := transcription.ToSegments(resp.Segments)
	for i := range segments {
		segments[i].ID = uuid.NewString()
		segments[i].Normalize()
	}
	segment.SortByStart(segments)

	if err := s.store.ReplaceDiarization(ctx, transcriptID, segments, nil, 0); err != nil {
		return err
	}
	if resp.Text != "" {
		if err := s.store.UpdateTranscriptContent(ctx, transcriptID, resp.Text); err != nil {
			return err
		}
	}
	return nil
}

// GetSegments returns the transcript's full segment list, recognized
// and missing merged, sorted by start time. Records missing a text
// field or timing are dropped rather than surfaced.
func (s *Service) GetSegments(ctx context.Context, transcriptID uuid.UUID) ([]segment.Segment, error) {
	t, err := s.store.GetTranscript(ctx, transcriptID)
	if err != nil {
		return nil, err
	}

	raws, err := segment.DecodeRaw(t.DiarizationData)
	if err != nil {
		return nil, errors.Internal("decode stored segments", err)
	}
	var missing []segment.Segment
	if len(t.MissingSegments) > 0 {
		if err := json.Unmarshal(t.MissingSegments, &missing); err != nil {
			return nil, errors.Internal("decode stored missing segments", err)
		}
	}
	return segment.Collect(raws, missing), nil
}

// UpdateMissingSegment upserts a user edit into the missing-segment
// timeline. A target is matched by id, then by its exact timing and
// speaker, and appended as new when nothing matches.
func (s *Service) UpdateMissingSegment(ctx context.Context, transcriptID uuid.UUID, edit segment.Segment) ([]segment.Segment, error) {
	_, missing, err := s.store.Segments(ctx, transcriptID)
	if err != nil {
		return nil, err
	}
	edit.IsMissing = true
	updated := reconcile.UpdateMissing(missing, edit)
	if err := s.store.SaveMissingSegments(ctx, transcriptID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// GetChatContent returns the transcript's CHAT text with the active
// speaker mappings substituted into the utterance markers.
func (s *Service) GetChatContent(ctx context.Context, transcriptID uuid.UUID) (string, error) {
	t, err := s.store.GetTranscript(ctx, transcriptID)
	if err != nil {
		return "", err
	}
	mappings, err := s.store.SpeakerMappings(ctx, transcriptID)
	if err != nil {
		return "", err
	}
	return speakermap.Apply(t.Content, mappings), nil
}

// UpdateSpeakerMapping replaces the transcript's mapping set and
// rewrites the stored CHAT header to declare the mapped roles.
func (s *Service) UpdateSpeakerMapping(ctx context.Context, transcriptID uuid.UUID, mappings []speakermap.Mapping) error {
	t, err := s.store.GetTranscript(ctx, transcriptID)
	if err != nil {
		return err
	}
	if err := s.store.ReplaceSpeakerMappings(ctx, transcriptID, mappings); err != nil {
		return err
	}
	rewritten := speakermap.RewriteHeader(t.Content, mappings)
	if rewritten != t.Content {
		if err := s.store.UpdateTranscriptContent(ctx, transcriptID, rewritten); err != nil {
			return err
		}
	}
	return nil
}

// StartAlignment creates an alignment task for the audio file and runs
// it to completion. The task record reflects every state transition;
// engine failures land in the task's error field, not in the returned
// error.
func (s *Service) StartAlignment(ctx context.Context, audioFileID uuid.UUID, transcriptID *uuid.UUID, engineName string) (*store.AlignmentTask, error) {
	engine, err := alignment.ParseEngine(engineName)
	if err != nil {
		return nil, errors.InvalidInput("engine", err.Error())
	}

	af, err := s.store.GetAudioFile(ctx, audioFileID)
	if err != nil {
		return nil, err
	}

	record := &store.AlignmentTask{
		AudioFileID:  audioFileID,
		TranscriptID: transcriptID,
		Engine:       engine.String(),
		Status:       string(alignment.StatusPending),
	}
	if err := s.store.CreateTask(ctx, record); err != nil {
		return nil, err
	}

	task := &alignment.Task{
		ID:        record.ID.String(),
		AudioPath: af.Path,
		Engine:    engine,
		Status:    alignment.StatusPending,
	}
	if transcriptID != nil {
		if t, err := s.store.GetTranscript(ctx, *transcriptID); err == nil {
			task.TranscriptText = t.Content
		}
	}

	record.Status = string(alignment.StatusProcessing)
	if err := s.store.UpdateTask(ctx, record); err != nil {
		return nil, err
	}

	s.aligner.Run(ctx, task)

	record.Status = string(task.Status)
	record.Error = task.Error
	if len(task.Words) > 0 {
		words, err := json.Marshal(task.Words)
		if err != nil {
			return nil, errors.Internal("encode word timings", err)
		}
		record.Words = words
	}
	if err := s.store.UpdateTask(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetAlignmentWords decodes the word-timing table of a completed task.
func (s *Service) GetAlignmentWords(ctx context.Context, taskID uuid.UUID) ([]alignment.WordTimestamp, error) {
	record, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if len(record.Words) == 0 {
		return nil, nil
	}
	var words []alignment.WordTimestamp
	if err := json.Unmarshal(record.Words, &words); err != nil {
		return nil, errors.Internal("decode word timings", err)
	}
	return words, nil
}
