package commands

import (
	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/arthur-debert/pakmerge/pkg/logging"
)

// RemoveModOptions defines the options for RemoveMod
type RemoveModOptions struct {
	ModID string
}

// RemoveMod forgets a mod and deletes its staging folder. Merged archives
// keep its contents until the next rebuilding deploy.
func RemoveMod(env *Env, opts RemoveModOptions) error {
	log := logging.GetLogger("commands.remove")

	if err := env.Store().Remove(opts.ModID); err != nil {
		return err
	}
	dir := env.Paths.ModStagingPath(opts.ModID)
	if err := env.FS.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", dir)
	}

	log.Info().Str("mod", opts.ModID).Msg("Removed mod")
	return nil
}
