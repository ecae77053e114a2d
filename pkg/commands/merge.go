package commands

import (
	"context"

	"github.com/arthur-debert/pakmerge/pkg/logging"
	"github.com/arthur-debert/pakmerge/pkg/merge"
)

// MergeArchiveOptions defines the options for MergeArchive
type MergeArchiveOptions struct {
	// ModID is the owning mod; resolved from FilePath when empty
	ModID string
	// FilePath is the renamed archive to merge
	FilePath string
	// MergeDir is the merge output root; defaults to the paths merge dir
	MergeDir string
}

// MergeArchive merges one renamed archive into its combined target
func MergeArchive(ctx context.Context, env *Env, opts MergeArchiveOptions) (*merge.Result, error) {
	log := logging.GetLogger("commands.merge")
	log.Debug().Str("command", "MergeArchive").Msg("Executing command")

	return env.Engine().Merge(ctx, merge.Request{
		ModID:    opts.ModID,
		FilePath: opts.FilePath,
		MergeDir: env.mergeDir(opts.MergeDir),
	})
}
