package commands

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/pakmerge/pkg/catalog"
	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/arthur-debert/pakmerge/pkg/installer"
	"github.com/arthur-debert/pakmerge/pkg/logging"
	"github.com/arthur-debert/pakmerge/pkg/types"
)

// InstallModOptions defines the options for InstallMod
type InstallModOptions struct {
	// SourceDir is the extracted mod package
	SourceDir string
	// ModID names the mod; defaults to the base name of SourceDir
	ModID string
	// GameID is the game the package targets; defaults to the configured game
	GameID string
	// Chooser resolves archive variants
	Chooser catalog.VariantChooser
}

// InstallModResult is the outcome of InstallMod
type InstallModResult struct {
	Record  *types.ModRecord
	Catalog *catalog.Result
}

// InstallMod catalogs a mod package, copies it to staging and records it
func InstallMod(ctx context.Context, env *Env, opts InstallModOptions) (*InstallModResult, error) {
	log := logging.GetLogger("commands.install")
	log.Debug().Str("command", "InstallMod").Msg("Executing command")

	modID := opts.ModID
	if modID == "" {
		modID = filepath.Base(filepath.Clean(opts.SourceDir))
	}
	gameID := opts.GameID
	if gameID == "" {
		gameID = env.Config.Game.ID
	}

	files, err := listPackage(env.FS, opts.SourceDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", opts.SourceDir).
			WithDetail("source", opts.SourceDir)
	}
	if support := catalog.TestSupported(files, gameID, env.Config); !support.Supported {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s has no %s archives for %s",
			opts.SourceDir, env.Config.Archive.Extension, env.Config.Game.Name).
			WithDetail("source", opts.SourceDir).
			WithDetail("game", gameID)
	}

	catOpts, err := catalog.OptionsFromConfig(env.Config)
	if err != nil {
		return nil, err
	}
	catOpts.Chooser = opts.Chooser
	result, err := catalog.New(catOpts).Catalog(ctx, files)
	if err != nil {
		return nil, err
	}

	inst := installer.New(installer.Options{
		StagingDir: env.Paths.StagingDir(),
		GameID:     gameID,
		FS:         env.FS,
		Now:        env.Now,
	})
	rec, err := inst.Install(ctx, modID, opts.SourceDir, result.Instructions)
	if err != nil {
		return nil, err
	}
	if err := env.Store().Put(rec); err != nil {
		return nil, err
	}
	if _, err := env.Engine().EnsureModsPath(env.Paths.MergeDir()); err != nil {
		return nil, err
	}

	log.Info().
		Str("mod", modID).
		Int("archives", len(result.Dictionary)).
		Msg("Command finished")
	return &InstallModResult{Record: rec, Catalog: result}, nil
}
