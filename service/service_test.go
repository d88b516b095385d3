package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/chatalign/alignment"
	"github.com/kbukum/chatalign/diarization"
	"github.com/kbukum/chatalign/provider"
	"github.com/kbukum/chatalign/segment"
	"github.com/kbukum/chatalign/speakermap"
	"github.com/kbukum/chatalign/store"
	"github.com/kbukum/chatalign/transcription"
)

type stubDiarizer struct {
	resp *diarization.Response
	err  error
}

func (s *stubDiarizer) Name() string                     { return "stub-diarizer" }
func (s *stubDiarizer) IsAvailable(context.Context) bool { return true }

func (s *stubDiarizer) Diarize(context.Context, diarization.Request) (*diarization.Response, error) {
	return s.resp, s.err
}

type stubTranscriber struct {
	resp *transcription.Response
	err  error
}

func (s *stubTranscriber) Name() string                     { return "stub-transcriber" }
func (s *stubTranscriber) IsAvailable(context.Context) bool { return true }

func (s *stubTranscriber) Transcribe(context.Context, transcription.Request) (*transcription.Response, error) {
	return s.resp, s.err
}

type stubAlignEngine struct {
	doc alignment.Document
	err error
}

func (s *stubAlignEngine) Name() string                     { return alignment.BackendWav2Vec }
func (s *stubAlignEngine) IsAvailable(context.Context) bool { return true }

func (s *stubAlignEngine) Align(context.Context, alignment.Request) (*alignment.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &alignment.Response{Document: s.doc}, nil
}

func newDiarizerManager(p diarization.Provider) *provider.Manager[diarization.Provider] {
	m := diarization.NewManager()
	m.Register(p.Name(), func(map[string]any) (diarization.Provider, error) { return p, nil })
	if err := m.Initialize(context.Background(), p.Name(), nil); err != nil {
		panic(err)
	}
	return m
}

func newTranscriberManager(p transcription.Provider) *provider.Manager[transcription.Provider] {
	m := transcription.NewManager()
	m.Register(p.Name(), func(map[string]any) (transcription.Provider, error) { return p, nil })
	if err := m.Initialize(context.Background(), p.Name(), nil); err != nil {
		panic(err)
	}
	return m
}

func newService(t *testing.T, opts ...Option) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(store.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, opts...), st
}

func seedTranscript(t *testing.T, st *store.Store, content string) *store.Transcript {
	t.Helper()
	ctx := context.Background()
	af := &store.AudioFile{Name: "session.wav", Path: filepath.Join(t.TempDir(), "session.wav")}
	if err := st.CreateAudioFile(ctx, af); err != nil {
		t.Fatal(err)
	}
	tr := &store.Transcript{AudioFileID: af.ID, Content: content}
	if err := st.CreateTranscript(ctx, tr); err != nil {
		t.Fatal(err)
	}
	return tr
}

func ms(v int64) *int64 { return &v }

func TestRunDiarizationReconcilesAndStores(t *testing.T) {
	diarizer := &stubDiarizer{resp: &diarization.Response{
		Segments: []diarization.Segment{
			{Speaker: "SPEAKER_0", Start: 0.0, End: 1.0},
			{Speaker: "SPEAKER_1", Start: 1.0, End: 2.0},
		},
		NumSpeakers: 2,
	}}
	svc, st := newService(t, WithDiarizers(newDiarizerManager(diarizer)))
	ctx := context.Background()
	tr := seedTranscript(t, st, "")

	// Pre-existing recognized text covering only the first second.
	existing := []segment.Segment{{ID: "a", Text: "hello", StartMS: 0, EndMS: 950, Speaker: ""}}
	if err := st.ReplaceDiarization(ctx, tr.ID, existing, nil, 0); err != nil {
		t.Fatal(err)
	}

	if err := svc.RunDiarization(ctx, tr.ID, diarization.Request{}); err != nil {
		t.Fatalf("RunDiarization: %v", err)
	}

	segs, missing, err := st.Segments(ctx, tr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 1 || segs[0].Text != "hello" || segs[0].Speaker != "SPEAKER_0" {
		t.Errorf("segments = %+v", segs)
	}
	if len(missing) != 1 || missing[0].Speaker != "SPEAKER_1" || missing[0].Text != "" {
		t.Errorf("missing = %+v", missing)
	}

	got, _ := st.GetTranscript(ctx, tr.ID)
	if got.NumSpeakers != 2 {
		t.Errorf("NumSpeakers = %d", got.NumSpeakers)
	}
}

func TestRunDiarizationEmptyASRProducesAllMissing(t *testing.T) {
	diarizer := &stubDiarizer{resp: &diarization.Response{
		Segments:    []diarization.Segment{{Speaker: "SPEAKER_0", Start: 0.0, End: 3.0}},
		NumSpeakers: 1,
	}}
	svc, st := newService(t, WithDiarizers(newDiarizerManager(diarizer)))
	ctx := context.Background()
	tr := seedTranscript(t, st, "")

	if err := svc.RunDiarization(ctx, tr.ID, diarization.Request{}); err != nil {
		t.Fatalf("RunDiarization: %v", err)
	}

	segs, missing, err := st.Segments(ctx, tr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 0 {
		t.Errorf("segments = %+v, want none", segs)
	}
	if len(missing) != 1 || missing[0].Speaker != "SPEAKER_0" || missing[0].Text != "" {
		t.Errorf("missing = %+v, want one empty SPEAKER_0 entry", missing)
	}
	if missing[0].StartMS != 0 || missing[0].EndMS != 3000 {
		t.Errorf("missing timing = [%d, %d], want [0, 3000]", missing[0].StartMS, missing[0].EndMS)
	}
}

func TestRunDiarizationEngineFailureLeavesStateUntouched(t *testing.T) {
	diarizer := &stubDiarizer{err: fmt.Errorf("sidecar down")}
	svc, st := newService(t, WithDiarizers(newDiarizerManager(diarizer)))
	ctx := context.Background()
	tr := seedTranscript(t, st, "")

	existing := []segment.Segment{{ID: "a", Text: "hello", StartMS: 0, EndMS: 900}}
	if err := st.ReplaceDiarization(ctx, tr.ID, existing, nil, 1); err != nil {
		t.Fatal(err)
	}

	if err := svc.RunDiarization(ctx, tr.ID, diarization.Request{}); err == nil {
		t.Fatal("expected error")
	}

	segs, _, err := st.Segments(ctx, tr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 1 || segs[0].ID != "a" {
		t.Errorf("segments = %+v, want prior state preserved", segs)
	}
}

func TestGetSegmentsMergesAndSorts(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	tr := seedTranscript(t, st, "")

	segs := []segment.Segment{{ID: "b", Text: "later", StartMS: 2000, EndMS: 3000, Speaker: "SPEAKER_0"}}
	missing := []segment.Segment{{ID: "a", Text: "", StartMS: 0, EndMS: 1000, Speaker: "SPEAKER_1", IsMissing: true}}
	if err := st.ReplaceDiarization(ctx, tr.ID, segs, missing, 2); err != nil {
		t.Fatal(err)
	}

	out, err := svc.GetSegments(ctx, tr.ID)
	if err != nil {
		t.Fatalf("GetSegments: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d segments, want 2", len(out))
	}
	if out[0].ID != "a" || !out[0].IsMissing {
		t.Errorf("first = %+v, want the missing segment first by start", out[0])
	}
	if out[1].ID != "b" {
		t.Errorf("second = %+v", out[1])
	}
}

func TestUpdateMissingSegmentPersists(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	tr := seedTranscript(t, st, "")

	missing := []segment.Segment{{ID: "m1", StartMS: 0, EndMS: 1000, Speaker: "SPEAKER_0", IsMissing: true}}
	if err := st.ReplaceDiarization(ctx, tr.ID, nil, missing, 1); err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateMissingSegment(ctx, tr.ID, segment.Segment{
		ID: "m1", StartMS: 0, EndMS: 1000, Speaker: "SPEAKER_0", Text: "filled in",
	})
	if err != nil {
		t.Fatalf("UpdateMissingSegment: %v", err)
	}
	if len(updated) != 1 || updated[0].Text != "filled in" {
		t.Errorf("updated = %+v", updated)
	}

	_, got, err := st.Segments(ctx, tr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Text != "filled in" {
		t.Errorf("persisted = %+v", got)
	}
}

func TestGetChatContentAppliesMappings(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	tr := seedTranscript(t, st, "*PAR0:\thello .")

	if err := st.ReplaceSpeakerMappings(ctx, tr.ID, []speakermap.Mapping{{OriginalID: "PAR0", Role: "MOT"}}); err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetChatContent(ctx, tr.ID)
	if err != nil {
		t.Fatalf("GetChatContent: %v", err)
	}
	if got != "*MOT:\thello ." {
		t.Errorf("content = %q", got)
	}
}

func TestUpdateSpeakerMappingRewritesHeader(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	tr := seedTranscript(t, st, "@Participants:\tPAR0 Participant\n@ID:\teng|corpus|PAR0|||||Participant|||\n*PAR0:\thello .")

	mappings := []speakermap.Mapping{{OriginalID: "PAR0", Role: "MOT"}}
	if err := svc.UpdateSpeakerMapping(ctx, tr.ID, mappings); err != nil {
		t.Fatalf("UpdateSpeakerMapping: %v", err)
	}

	got, err := st.GetTranscript(ctx, tr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if want := "@Participants:\tMOT Mother"; !strings.Contains(got.Content, want) {
		t.Errorf("content missing %q:\n%s", want, got.Content)
	}

	// Read path now maps the utterance markers too.
	content, err := svc.GetChatContent(ctx, tr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, "*MOT:\thello .") {
		t.Errorf("read path content:\n%s", content)
	}
}

func TestStartAlignmentCompletes(t *testing.T) {
	runner := alignment.NewRunner()
	runner.Register(alignment.BackendWav2Vec, &stubAlignEngine{doc: alignment.Document{
		Utterances: []alignment.Utterance{
			{Tokens: []alignment.Token{{Text: "hello", StartMS: ms(0), EndMS: ms(500)}}},
		},
	}})
	svc, st := newService(t, WithAligner(runner))
	ctx := context.Background()
	tr := seedTranscript(t, st, "*PAR0:\thello .")

	record, err := svc.StartAlignment(ctx, tr.AudioFileID, &tr.ID, "auto")
	if err != nil {
		t.Fatalf("StartAlignment: %v", err)
	}
	if record.Status != string(alignment.StatusCompleted) {
		t.Fatalf("status = %s (error %q)", record.Status, record.Error)
	}

	words, err := svc.GetAlignmentWords(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetAlignmentWords: %v", err)
	}
	if len(words) != 1 || words[0].Word != "hello" {
		t.Errorf("words = %+v", words)
	}
}

func TestStartAlignmentRecordsFailure(t *testing.T) {
	runner := alignment.NewRunner()
	runner.Register(alignment.BackendWav2Vec, &stubAlignEngine{err: fmt.Errorf("model crashed")})
	svc, st := newService(t, WithAligner(runner))
	ctx := context.Background()
	tr := seedTranscript(t, st, "")

	record, err := svc.StartAlignment(ctx, tr.AudioFileID, nil, "")
	if err != nil {
		t.Fatalf("StartAlignment must not fail on engine errors: %v", err)
	}
	if record.Status != string(alignment.StatusFailed) {
		t.Fatalf("status = %s, want FAILED", record.Status)
	}
	if record.Error != "model crashed" {
		t.Errorf("error = %q, want the engine message verbatim", record.Error)
	}

	got, err := st.GetTask(ctx, record.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != string(alignment.StatusFailed) {
		t.Errorf("persisted status = %s", got.Status)
	}
}

func TestStartAlignmentRejectsUnknownEngine(t *testing.T) {
	svc, st := newService(t, WithAligner(alignment.NewRunner()))
	tr := seedTranscript(t, st, "")
	if _, err := svc.StartAlignment(context.Background(), tr.AudioFileID, nil, "espeak"); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestRunTranscriptionStoresSegments(t *testing.T) {
	transcriber := &stubTranscriber{resp: &transcription.Response{
		Text: "hello there",
		Segments: []transcription.Segment{
			{Start: 1.0, End: 2.0, Text: "there", Speaker: "SPEAKER_0"},
			{Start: 0.0, End: 1.0, Text: "hello", Speaker: "SPEAKER_0"},
		},
	}}
	svc, st := newService(t, WithTranscribers(newTranscriberManager(transcriber)))
	ctx := context.Background()
	tr := seedTranscript(t, st, "")

	if err := svc.RunTranscription(ctx, tr.ID, transcription.Request{}); err != nil {
		t.Fatalf("RunTranscription: %v", err)
	}

	segs, _, err := st.Segments(ctx, tr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments", len(segs))
	}
	if segs[0].Text != "hello" || segs[0].StartMS != 0 || segs[0].EndMS != 1000 {
		t.Errorf("first segment = %+v, want sorted ms conversion", segs[0])
	}

	got, _ := st.GetTranscript(ctx, tr.ID)
	if got.Content != "hello there" {
		t.Errorf("content = %q", got.Content)
	}
}
