// Package transcription defines the provider interface and common
// types for interacting with speech-to-text backends.
//
// It follows the provider pattern with a pluggable registry for
// runtime-selectable backends.
//
// # Backends
//
//   - transcription/rev: Rev AI asynchronous speech-to-text
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.Register("rev", revProvider)
//	result, err := reg.Get("rev").Transcribe(ctx, req)
package transcription
