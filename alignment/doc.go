// Package alignment runs forced alignment of audio against transcript
// text and flattens the aligned output into a chronological word-timing
// table.
//
// Alignment engines follow the provider pattern: the sidecar
// subpackage implements the HTTP backends (wav2vec and whisper) and
// the Auto engine picks between them by priority with availability
// fallback. The Runner drives a task through its lifecycle, resolving
// the transcript source, invoking the engine, and recording success or
// the failure message on the task.
package alignment
