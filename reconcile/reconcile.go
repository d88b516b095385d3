package reconcile

import (
	"github.com/google/uuid"

	"github.com/kbukum/chatalign/segment"
)

// minCoverage is the fraction of a diarized segment that a transcript
// segment must overlap before its text is adopted. The comparison is
// strict, so an exact half overlap does not match.
const minCoverage = 0.5

// Reconcile pairs each diarized segment with transcript text. Diarized
// segments define the timeline and the speaker labels; transcript
// segments contribute only text. For every diarized segment the first
// transcript segment (in input order) whose overlap covers more than
// half of the diarized duration wins; its text is copied when
// non-empty. A diarized segment with no match becomes a placeholder
// flagged missing with empty text.
//
// All returned segments carry fresh ids, normalized timings, and are
// sorted by start time.
func Reconcile(diarized, transcript []segment.Segment) []segment.Segment {
	out := make([]segment.Segment, 0, len(diarized))
	for _, d := range diarized {
		s := segment.Segment{
			ID:      uuid.NewString(),
			StartMS: d.StartMS,
			EndMS:   d.EndMS,
			Speaker: d.Speaker,
		}
		if t, ok := match(d, transcript); ok {
			if t.Text != "" {
				s.Text = t.Text
			}
			s.WordTimings = t.WordTimings
		} else {
			s.IsMissing = true
		}
		s.Normalize()
		out = append(out, s)
	}
	segment.SortByStart(out)
	return out
}

// match finds the first transcript segment covering more than half of
// the diarized segment.
func match(d segment.Segment, transcript []segment.Segment) (segment.Segment, bool) {
	dur := d.EndMS - d.StartMS
	if dur <= 0 {
		return segment.Segment{}, false
	}
	for _, t := range transcript {
		overlap := min(d.EndMS, t.EndMS) - max(d.StartMS, t.StartMS)
		if overlap <= 0 {
			continue
		}
		if float64(overlap)/float64(dur) > minCoverage {
			return t, true
		}
	}
	return segment.Segment{}, false
}

// UpdateMissing upserts an edited segment into the stored list. The
// incoming segment replaces an existing one matched by id, or failing
// that by the exact (start, end, speaker) triple, in which case the
// stored record adopts the incoming id. With no match at all the
// segment is appended. The incoming values always win.
func UpdateMissing(existing []segment.Segment, updated segment.Segment) []segment.Segment {
	updated.Normalize()
	for i := range existing {
		if existing[i].ID == updated.ID {
			existing[i] = updated
			return existing
		}
	}
	for i := range existing {
		if existing[i].StartMS == updated.StartMS &&
			existing[i].EndMS == updated.EndMS &&
			existing[i].Speaker == updated.Speaker {
			existing[i] = updated
			return existing
		}
	}
	existing = append(existing, updated)
	segment.SortByStart(existing)
	return existing
}
