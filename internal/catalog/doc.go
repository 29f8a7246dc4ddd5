// Package catalog persists recording metadata in SQLite and exposes the
// lookups the pipeline needs to process a capture.
//
// A catalog row describes one captured broadcast: channel, start time,
// guide metadata, frame rate, and the path of the raw stream. Commercial
// cut marks are stored as frame pairs in a child table and converted to
// seconds with the recording's frame rate on the way out. Credits are a
// second child table feeding container tagging.
//
// The database is an input to processing runs, not pipeline state; rows
// are added by `recut catalog add` or an external recorder integration.
package catalog
