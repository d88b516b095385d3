// Package reconcile merges speaker-diarization output with ASR
// transcript segments. Each diarized segment adopts the text of the
// first transcript segment that covers more than half of it; segments
// with no qualifying transcript text become missing placeholders that
// a human can fill in later.
package reconcile
