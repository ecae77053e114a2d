package archive

import (
	"context"
)

// AddOptions controls Add
type AddOptions struct {
	// Recursive adds directory entries together with everything below them
	Recursive bool
}

// Entry describes one file stored in an archive
type Entry struct {
	Name  string
	Size  uint64
	CRC32 uint32
	IsDir bool
}

// Codec is the archive compress/decompress capability used by the merge
// engine.
type Codec interface {
	// ExtractFull extracts every entry of archivePath below destDir,
	// overwriting files that already exist there.
	ExtractFull(ctx context.Context, archivePath, destDir string) error

	// Add stores the given filesystem entries in archivePath, creating it
	// when missing. Each entry is stored under its base name; with
	// Recursive, directories are stored with their whole subtree.
	Add(ctx context.Context, archivePath string, entries []string, opts AddOptions) error

	// List returns the entries of archivePath in archive order.
	List(ctx context.Context, archivePath string) ([]Entry, error)
}
