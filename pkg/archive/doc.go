// Package archive implements the archive codec used by the merge engine.
//
// Dying Light 2 paks are zip files. The codec offers the two operations the
// merge pipeline needs, full extraction into a directory and a recursive
// add of filesystem entries into an archive, plus a listing used by the CLI
// and tests. All operations run against a types.FS so the merge engine can
// be exercised on an in-memory filesystem.
//
// Every call is synchronous: when ExtractFull or Add returns, all file
// handles it opened are closed.
package archive
