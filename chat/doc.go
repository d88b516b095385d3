// Package chat parses and rewrites CHAT-format transcripts. A CHAT
// file is line oriented: header lines such as @Participants and @ID
// carry metadata, and utterance lines are prefixed with a *CODE:
// speaker marker. The package keeps every line it does not understand
// untouched, so rewriting the header never disturbs the transcript
// body.
package chat
