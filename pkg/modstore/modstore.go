package modstore

import "github.com/arthur-debert/pakmerge/pkg/types"

// Reader is the read-only view of installed mods used at deploy time.
type Reader interface {
	// Get returns the record for id, or an ErrModNotFound error.
	Get(id string) (*types.ModRecord, error)

	// Mods returns the records installed for gameID, sorted by id.
	Mods(gameID string) ([]*types.ModRecord, error)
}

// Store manages the installed mod records.
type Store interface {
	Reader

	// Put inserts or replaces the record with the same id.
	Put(rec *types.ModRecord) error

	// Remove deletes the record for id, or returns an ErrModNotFound error.
	Remove(id string) error
}
