package merge

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/pakmerge/pkg/archive"
	"github.com/arthur-debert/pakmerge/pkg/config"
	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/arthur-debert/pakmerge/pkg/logging"
	"github.com/arthur-debert/pakmerge/pkg/modstore"
	"github.com/arthur-debert/pakmerge/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures an Engine
type Options struct {
	// GameID selects the mod records considered for owner resolution
	GameID string
	// ModsPath is where merged archives live below the merge dir
	ModsPath string
	// ScratchDir is the scratch root below the merge dir
	ScratchDir string
	// PackingExtension is appended to the target while packing
	PackingExtension string
	// Concurrency bounds the target groups MergeAll runs at once
	Concurrency int
}

// OptionsFromConfig derives Options from the configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		GameID:           cfg.Game.ID,
		ModsPath:         cfg.Game.ModsPath,
		ScratchDir:       cfg.Merge.ScratchDir,
		PackingExtension: cfg.Archive.PackingExtension,
		Concurrency:      cfg.Merge.Concurrency,
	}
}

// Request asks for one renamed archive to be merged
type Request struct {
	// ModID is the mod that deployed FilePath. When empty the owner is
	// resolved from the path.
	ModID string
	// FilePath is the renamed archive to merge in
	FilePath string
	// MergeDir is the root of the merge output
	MergeDir string
}

// Result describes one merge
type Result struct {
	// Skipped is set when nothing was merged; Reason says why
	Skipped bool
	Reason  string

	ModID    string
	Original string
	// Target is the merged archive that was written
	Target string
}

// Engine merges renamed archives into combined targets
type Engine struct {
	fs     types.FS
	codec  archive.Codec
	mods   modstore.Reader
	opts   Options
	locks  *keyedMutex
	logger zerolog.Logger
}

// NewEngine creates a merge engine
func NewEngine(fs types.FS, codec archive.Codec, mods modstore.Reader, opts Options) *Engine {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Engine{
		fs:     fs,
		codec:  codec,
		mods:   mods,
		opts:   opts,
		locks:  newKeyedMutex(),
		logger: logging.GetLogger("merge"),
	}
}

// TargetPath is the merged archive for an original basename
func (e *Engine) TargetPath(mergeDir, original string) string {
	return filepath.Join(mergeDir, filepath.FromSlash(e.opts.ModsPath), original)
}

// Resolve finds the owning mod and merge target of a request without
// touching the filesystem. Unresolvable requests come back as skipped
// results.
func (e *Engine) Resolve(req Request) (*Result, error) {
	base := filepath.Base(req.FilePath)

	var (
		rec *types.ModRecord
		err error
	)
	if req.ModID != "" {
		rec, err = e.mods.Get(req.ModID)
		if errors.IsErrorCode(err, errors.ErrModNotFound) {
			return skipped(req.ModID, "mod is not installed"), nil
		}
	} else {
		rec, err = e.ResolveOwner(req.FilePath)
	}
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return skipped("", "no installed mod owns this file"), nil
	}

	dict, err := rec.PakDictionary()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreLoad, "mod %s has an unreadable pakDictionary", rec.ID).
			WithDetail("mod", rec.ID)
	}
	original, ok := dict.Lookup(base)
	if !ok {
		return skipped(rec.ID, "archive is not in the mod's pakDictionary"), nil
	}

	return &Result{
		ModID:    rec.ID,
		Original: original,
		Target:   e.TargetPath(req.MergeDir, original),
	}, nil
}

func skipped(modID, reason string) *Result {
	return &Result{Skipped: true, Reason: reason, ModID: modID}
}

// Merge merges one renamed archive into its combined target. Requests that
// cannot be resolved to a dictionary entry are skipped without touching the
// merge dir.
func (e *Engine) Merge(ctx context.Context, req Request) (*Result, error) {
	log := e.logger.With().
		Str("file", req.FilePath).
		Str("mod", req.ModID).
		Logger()

	result, err := e.Resolve(req)
	if err != nil {
		return nil, err
	}
	if result.Skipped {
		log.Warn().Str("reason", result.Reason).Msg("Skipping merge")
		return result, nil
	}

	unlock := e.locks.Lock(result.Target)
	defer unlock()

	done := logging.LogOperationStart(log, "merge")
	defer done()

	if err := e.mergeInto(ctx, req, result.Target); err != nil {
		return nil, mergeError(err, req, result)
	}

	log.Info().
		Str("mod", result.ModID).
		Str("original", result.Original).
		Str("target", result.Target).
		Msg("Merged archive")
	return result, nil
}

// mergeError annotates a failed merge. Coded errors from the codec and the
// filesystem keep their code; anything else becomes ErrMergeFailed.
func mergeError(err error, req Request, result *Result) error {
	pakErr, ok := err.(*errors.PakError)
	if !ok {
		pakErr = errors.Wrapf(err, errors.ErrMergeFailed, "failed to merge %s into %s", req.FilePath, result.Target)
	}
	return pakErr.
		WithDetail("mod", result.ModID).
		WithDetail("file", req.FilePath).
		WithDetail("target", result.Target)
}

// mergeInto runs the extract/extract/pack/replace sequence. The caller
// holds the target lock.
func (e *Engine) mergeInto(ctx context.Context, req Request, target string) (err error) {
	scratch, err := ScratchPath(req.MergeDir, e.opts.ScratchDir, target)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to derive scratch dir")
	}
	packed := target + e.opts.PackingExtension

	defer func() {
		if err != nil {
			_ = e.fs.Remove(packed)
		}
		if rmErr := e.fs.RemoveAll(scratch); rmErr != nil {
			e.logger.Warn().Err(rmErr).Str("scratch", scratch).Msg("Failed to remove scratch dir")
		}
	}()

	if err := e.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(target))
	}
	if err := e.fs.RemoveAll(scratch); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to clear scratch dir %s", scratch)
	}
	if err := e.fs.MkdirAll(scratch, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create scratch dir %s", scratch)
	}
	if err := e.fs.Remove(packed); err != nil && !errors.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove stale %s", packed)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := e.fs.Stat(target); err == nil {
		if err := e.codec.ExtractFull(ctx, target, scratch); err != nil {
			return err
		}
	} else if !errors.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", target)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.codec.ExtractFull(ctx, req.FilePath, scratch); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	children, err := e.fs.ReadDir(scratch)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to list scratch dir %s", scratch)
	}
	entries := make([]string, 0, len(children))
	for _, child := range children {
		entries = append(entries, filepath.Join(scratch, child.Name()))
	}
	if err := e.codec.Add(ctx, packed, entries, archive.AddOptions{Recursive: true}); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.fs.Rename(packed, target); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to move %s into place", packed)
	}
	return nil
}
