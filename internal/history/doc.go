// Package history records autosrt runs in a small SQLite database.
//
// Every Generate invocation produces one Run row: the video and subtitle
// paths, the terminal status, the stage that failed (if any), cue counts and
// token usage reported by the transcription service. The CLI reads the table
// back for `autosrt history`.
//
// The database is an audit log, not pipeline state. Nothing in a run depends
// on earlier rows. Schema changes bump schemaVersion in schema.go; operators
// delete the database to adopt a new schema.
package history
