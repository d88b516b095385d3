// Package errors provides unified error handling for chatalign.
//
// It implements a structured error type with machine-readable codes and
// HTTP status mapping. The taxonomy follows how the transcription core
// reports failures: engines that are unavailable or misconfigured abort
// the operation with a user-facing message, engine exceptions are captured
// at the task boundary, and records missing for an edit are treated as
// creates rather than errors. Malformed upstream data and invalid timing
// never produce errors at all; they are filtered or repaired in place.
package errors
