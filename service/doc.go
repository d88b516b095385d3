// Package service orchestrates the transcription pipeline: running
// diarization and reconciling it with recognized text, serving and
// correcting segment lists, applying speaker mappings to CHAT content,
// and driving forced-alignment tasks. It owns no algorithm of its own;
// it wires the domain packages to the store and the engine providers,
// with logging and tracing middleware around every engine call.
package service
