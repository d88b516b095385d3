// Package embedding defines the provider interface for speaker embedding
// backends. An embedder maps a short stretch of audio to a fixed-dimension
// vector; the diarization clusterer groups those vectors into speakers.
//
// # Backends
//
//   - embedding/speechbrain: ECAPA speaker-embedding HTTP sidecar
package embedding
