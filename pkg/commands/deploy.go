package commands

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/arthur-debert/pakmerge/pkg/logging"
	"github.com/arthur-debert/pakmerge/pkg/merge"
	"github.com/arthur-debert/pakmerge/pkg/types"
)

// DeployOptions defines the options for Deploy
type DeployOptions struct {
	// MergeDir is the merge output root; defaults to the paths merge dir
	MergeDir string
	// ModIDs restricts the deploy to these mods; empty means all
	ModIDs []string
	// Rebuild clears previously merged archives first so removed mods
	// stop contributing
	Rebuild bool
}

// Deploy merges the archives of every installed mod. Mods are merged in
// install order, so the most recently installed mod wins on conflicts.
func Deploy(ctx context.Context, env *Env, opts DeployOptions) (*merge.Report, error) {
	log := logging.GetLogger("commands.deploy")
	log.Debug().Str("command", "Deploy").Msg("Executing command")

	mergeDir := env.mergeDir(opts.MergeDir)
	mods, err := selectMods(env, opts.ModIDs)
	if err != nil {
		return nil, err
	}

	if opts.Rebuild {
		modsPath := filepath.Join(mergeDir, filepath.FromSlash(env.Config.Game.ModsPath))
		if err := env.FS.RemoveAll(modsPath); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to clear %s", modsPath)
		}
	}
	if _, err := env.Engine().EnsureModsPath(mergeDir); err != nil {
		return nil, err
	}

	var reqs []merge.Request
	for _, rec := range mods {
		deployed, err := deployedFiles(env.FS, env.Paths.StagingDir(), rec.ID)
		if err != nil {
			if errors.IsNotExist(err) {
				log.Warn().Str("mod", rec.ID).Msg("Mod has no staging folder, skipping")
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list staged files of %s", rec.ID)
		}
		for _, base := range merge.BaseFiles(env.Paths.StagingDir(), deployed, env.Config.Archive.Extension) {
			reqs = append(reqs, merge.Request{ModID: rec.ID, FilePath: base.In, MergeDir: mergeDir})
		}
	}

	report := env.Engine().MergeAll(ctx, reqs)
	log.Info().
		Int("mods", len(mods)).
		Int("archives", len(reqs)).
		Msg("Command finished")
	return report, nil
}

// selectMods returns the installed mods in install order
func selectMods(env *Env, ids []string) ([]*types.ModRecord, error) {
	var mods []*types.ModRecord
	if len(ids) == 0 {
		all, err := env.Store().Mods(env.Config.Game.ID)
		if err != nil {
			return nil, err
		}
		mods = all
	} else {
		for _, id := range ids {
			rec, err := env.Store().Get(id)
			if err != nil {
				return nil, err
			}
			mods = append(mods, rec)
		}
	}

	sort.SliceStable(mods, func(i, j int) bool {
		if !mods[i].InstallTime.Equal(mods[j].InstallTime) {
			return mods[i].InstallTime.Before(mods[j].InstallTime)
		}
		return mods[i].ID < mods[j].ID
	})
	return mods, nil
}
