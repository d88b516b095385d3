// Package speakermap translates engine-assigned speaker labels into
// user-chosen CHAT roles. The read path substitutes utterance markers
// in transcript text on the fly; the write path rewrites the CHAT
// header through the chat package's structured model.
package speakermap
