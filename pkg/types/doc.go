// Package types defines the data shared between the cataloger, the merge
// engine and the host-side collaborators: install instructions, mod records
// with their pak dictionary, deployed-file descriptors and the filesystem
// interface the core runs against.
package types
