// Package diarization defines the provider interface and common types
// for speaker diarization backends.
//
// Two backends ship with chatalign:
//
//   - diarization/cluster: local energy-VAD + embedding + agglomerative
//     clustering, the default when no external diarization service is
//     configured
//   - diarization/pyannote: Pyannote HTTP sidecar
//
// # Usage
//
//	reg := diarization.NewRegistry()
//	reg.RegisterFactory("cluster", cluster.Factory(embedder))
//	result, err := reg.Create("cluster", cfg)
package diarization
