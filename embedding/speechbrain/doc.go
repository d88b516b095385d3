// Package speechbrain implements the embedding.Provider interface
// against a Speechbrain ECAPA-TDNN HTTP sidecar. Audio is posted as a
// mono 16-bit WAV multipart upload and the sidecar responds with a
// fixed-length speaker embedding.
package speechbrain
