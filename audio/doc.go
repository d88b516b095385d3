// Package audio provides the minimal PCM waveform handling the local
// diarization clusterer needs: WAV decoding, mono downmix, and duration
// accounting. It is not a general audio library.
package audio
