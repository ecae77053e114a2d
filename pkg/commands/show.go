package commands

import (
	"github.com/arthur-debert/pakmerge/pkg/types"
)

// ShowModsOptions defines the options for ShowMods
type ShowModsOptions struct {
	// ModIDs selects mods; empty means all installed mods
	ModIDs []string
}

// ShowMods returns the selected mods in install order
func ShowMods(env *Env, opts ShowModsOptions) ([]*types.ModRecord, error) {
	return selectMods(env, opts.ModIDs)
}
