// Package testutil provides utilities for testing pakmerge components.
//
// Helpers operate on a types.FS so the same test can run against the
// in-memory filesystem or the real one. Archive helpers build and read
// zip-format paks without going through the codec under test.
package testutil
