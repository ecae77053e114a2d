package merge

import (
	"strings"

	"github.com/arthur-debert/pakmerge/pkg/types"
)

// ResolveOwner finds the installed mod whose id appears in path. When
// several ids match, the longest one wins so "mod" never shadows "mod-v2".
// It returns nil when no mod matches.
func (e *Engine) ResolveOwner(path string) (*types.ModRecord, error) {
	mods, err := e.mods.Mods(e.opts.GameID)
	if err != nil {
		return nil, err
	}
	return ownerOf(path, mods), nil
}

func ownerOf(path string, mods []*types.ModRecord) *types.ModRecord {
	var best *types.ModRecord
	for _, rec := range mods {
		if rec.ID == "" || !strings.Contains(path, rec.ID) {
			continue
		}
		if best == nil || len(rec.ID) > len(best.ID) {
			best = rec
		}
	}
	return best
}
