// Package cluster provides a self-contained diarization backend that
// detects speech windows with an energy-based voice activity detector,
// embeds each window with a speaker-embedding provider, and groups the
// embeddings with agglomerative clustering over cosine distance.
//
// Unlike the pyannote backend it needs no dedicated diarization
// service, only an embedding sidecar.
package cluster
