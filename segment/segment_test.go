package segment

import (
	"encoding/json"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func TestCollectSortsByStart(t *testing.T) {
	raws := []Raw{
		{Text: strPtr("second"), StartMS: i64Ptr(5000), EndMS: i64Ptr(6000)},
		{Text: strPtr("first"), StartMS: i64Ptr(0), EndMS: i64Ptr(1000)},
	}
	missing := []Segment{
		{ID: "m1", StartMS: 2000, EndMS: 3000, Speaker: "SPEAKER_1"},
	}

	segs := Collect(raws, missing)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	for i := 1; i < len(segs); i++ {
		if segs[i].StartMS < segs[i-1].StartMS {
			t.Fatalf("segments not sorted at index %d: %v", i, segs)
		}
	}
	if segs[0].Text != "first" || segs[1].ID != "m1" || segs[2].Text != "second" {
		t.Errorf("unexpected order: %+v", segs)
	}
	if !segs[1].IsMissing {
		t.Error("missing segment must carry IsMissing")
	}
}

func TestCollectDropsIncompleteRecords(t *testing.T) {
	raws := []Raw{
		{Text: strPtr("ok"), StartMS: i64Ptr(0), EndMS: i64Ptr(100)},
		{StartMS: i64Ptr(0), EndMS: i64Ptr(100)},          // no text
		{Text: strPtr("no start"), EndMS: i64Ptr(100)},    // no start
		{Text: strPtr("no end"), StartMS: i64Ptr(0)},      // no end
	}

	segs := Collect(raws, nil)
	if len(segs) != 1 {
		t.Fatalf("expected 1 usable segment, got %d", len(segs))
	}
	if segs[0].Text != "ok" {
		t.Errorf("wrong survivor: %+v", segs[0])
	}
}

func TestCollectRepairsTiming(t *testing.T) {
	raws := []Raw{
		{Text: strPtr("x"), StartMS: i64Ptr(500), EndMS: i64Ptr(500)},
	}
	segs := Collect(raws, nil)
	if segs[0].EndMS != 500+MinDurationMS {
		t.Errorf("expected repaired end %d, got %d", 500+MinDurationMS, segs[0].EndMS)
	}
}

func TestCollectStableForEqualStarts(t *testing.T) {
	raws := []Raw{
		{Text: strPtr("a"), StartMS: i64Ptr(0), EndMS: i64Ptr(100)},
		{Text: strPtr("b"), StartMS: i64Ptr(0), EndMS: i64Ptr(200)},
	}
	segs := Collect(raws, nil)
	if segs[0].Text != "a" || segs[1].Text != "b" {
		t.Errorf("equal starts must keep input order, got %+v", segs)
	}
}

func TestWordTimingsNilVsEmpty(t *testing.T) {
	noTimings := Segment{Text: "a", StartMS: 0, EndMS: 100}
	emptyTimings := Segment{Text: "b", StartMS: 0, EndMS: 100, WordTimings: []WordTiming{}}

	noData, err := json.Marshal(noTimings)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(noData), "word_timings") {
		t.Errorf("nil timings must be absent from JSON: %s", noData)
	}

	emptyData, err := json.Marshal(emptyTimings)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(emptyData), `"word_timings":[]`) {
		t.Errorf("empty timings must serialize as []: %s", emptyData)
	}

	var back Segment
	if err := json.Unmarshal(emptyData, &back); err != nil {
		t.Fatal(err)
	}
	if back.WordTimings == nil {
		t.Error("empty timings must round-trip as non-nil")
	}

	var backNil Segment
	if err := json.Unmarshal(noData, &backNil); err != nil {
		t.Fatal(err)
	}
	if backNil.WordTimings != nil {
		t.Error("absent timings must round-trip as nil")
	}
}

func TestDecodeRaw(t *testing.T) {
	data := []byte(`[{"text":"hi","start":0,"end":900,"speaker":"SPEAKER_0"},{"start":1}]`)
	raws, err := DecodeRaw(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 raw records, got %d", len(raws))
	}
	if raws[0].Text == nil || *raws[0].Text != "hi" {
		t.Errorf("unexpected first record: %+v", raws[0])
	}
	if raws[1].Text != nil {
		t.Error("second record should have nil text")
	}
}

func TestDecodeRawEmpty(t *testing.T) {
	raws, err := DecodeRaw(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raws != nil {
		t.Errorf("expected nil for empty input, got %v", raws)
	}
}

func TestDecodeRawInvalid(t *testing.T) {
	if _, err := DecodeRaw([]byte(`{not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestNormalizeValidTimingUntouched(t *testing.T) {
	s := Segment{StartMS: 0, EndMS: 50}
	s.Normalize()
	if s.EndMS != 50 {
		t.Errorf("valid timing must not change, got %d", s.EndMS)
	}
}
