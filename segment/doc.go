// Package segment defines the canonical representation of a time-bounded
// unit of speech or text in a transcript.
//
// A transcript's full segment set is the union of ASR-derived segments and
// user-correctable missing segments, always ordered by start time. Upstream
// segment records are decoded leniently: items without text or timing are
// excluded rather than failing the whole transcript.
package segment
