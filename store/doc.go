// Package store persists audio files, transcripts, speaker mappings,
// and alignment tasks in a GORM-backed SQLite database. Segment lists
// are stored as JSON documents on the transcript record and replaced
// wholesale; mapping and task writes run inside transactions so
// concurrent edits to the same record serialize at the database.
package store
