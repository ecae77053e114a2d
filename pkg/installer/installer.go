package installer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/pakmerge/pkg/errors"
	pakfs "github.com/arthur-debert/pakmerge/pkg/filesystem"
	"github.com/arthur-debert/pakmerge/pkg/logging"
	"github.com/arthur-debert/pakmerge/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"
)

// Options configures an Installer
type Options struct {
	// StagingDir holds one folder per installed mod
	StagingDir string
	// GameID is recorded on every installed mod
	GameID string
	// FS holds the package sources and the staging folders; nil uses the
	// OS filesystem
	FS types.FS
	// Now stamps the install time; nil uses time.Now
	Now func() time.Time
}

// Installer applies install instructions
type Installer struct {
	opts       Options
	filesystem filesystem.FullFileSystem
	rollback   bool
	logger     zerolog.Logger
}

// New creates an Installer. Copies run through synthfs on top of opts.FS.
func New(opts Options) *Installer {
	if opts.FS == nil {
		opts.FS = pakfs.NewOS()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	pathAwareFS := synthfs.NewPathAwareFileSystem(newSynthFS(opts.FS, "/"), "/").WithAbsolutePaths()

	return &Installer{
		opts:       opts,
		filesystem: pathAwareFS,
		rollback:   true,
		logger:     logging.GetLogger("installer"),
	}
}

// ModDir is the staging folder of a mod
func (i *Installer) ModDir(modID string) string {
	return filepath.Join(i.opts.StagingDir, modID)
}

// workDir is where a mod is assembled before it replaces ModDir
func (i *Installer) workDir(modID string) string {
	return filepath.Join(i.opts.StagingDir, "."+modID+".installing")
}

// Install copies the files named by instructions from sourceDir into the
// mod's staging folder and returns the record describing the install.
// An existing staging folder for modID is replaced only once every copy
// succeeded; a failed install leaves it untouched.
func (i *Installer) Install(ctx context.Context, modID, sourceDir string, instructions []types.Instruction) (*types.ModRecord, error) {
	if modID == "" {
		return nil, errors.New(errors.ErrInvalidInput, "mod id is required")
	}
	if strings.ContainsAny(modID, `/\`) || modID == "." || modID == ".." {
		return nil, errors.Newf(errors.ErrInvalidInput, "mod id %q is not a valid folder name", modID)
	}

	done := logging.LogOperationStart(i.logger, "install")
	defer done()

	modDir := i.ModDir(modID)
	workDir := i.workDir(modID)
	rec := &types.ModRecord{
		ID:          modID,
		GameID:      i.opts.GameID,
		InstallPath: modDir,
		InstallTime: i.opts.Now().UTC(),
	}

	sfs := synthfs.New()
	var ops []synthfs.Operation
	for n, inst := range instructions {
		switch inst.Type {
		case types.InstructionSetModType:
			modType, ok := inst.Value.(string)
			if !ok {
				return nil, errors.Newf(errors.ErrInvalidInput, "setmodtype value is %T, not a string", inst.Value)
			}
			rec.Type = modType
		case types.InstructionAttribute:
			rec.SetAttribute(inst.Key, inst.Value)
		case types.InstructionCopy:
			target, err := resolveInside(workDir, inst.Destination)
			if err != nil {
				return nil, err
			}
			source := filepath.Join(sourceDir, filepath.FromSlash(inst.Source))
			id := fmt.Sprintf("copy_%s_%d_%s", modID, n, filepath.Base(target))
			ops = append(ops, sfs.CustomOperationWithID(id, copyFileOperation(source, target)))
		default:
			return nil, errors.Newf(errors.ErrInvalidInput, "unknown instruction type %q", inst.Type)
		}
	}

	if err := i.opts.FS.RemoveAll(workDir); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to clear %s", workDir)
	}
	if err := i.opts.FS.MkdirAll(workDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", workDir)
	}

	if len(ops) > 0 {
		options := synthfs.DefaultPipelineOptions()
		options.RollbackOnError = i.rollback

		i.logger.Info().
			Str("mod", modID).
			Int("operationCount", len(ops)).
			Msg("Executing copy operations")

		if _, err := synthfs.RunWithOptions(ctx, i.filesystem, options, ops...); err != nil {
			i.discard(workDir)
			return nil, errors.Wrapf(err, errors.ErrInstallFailed, "failed to install %s", modID).
				WithDetail("mod", modID).
				WithDetail("source", sourceDir)
		}
	}

	if err := i.replace(workDir, modDir); err != nil {
		i.discard(workDir)
		return nil, errors.Wrapf(err, errors.ErrInstallFailed, "failed to move %s into place", modID).
			WithDetail("mod", modID)
	}

	i.logger.Info().
		Str("mod", modID).
		Str("type", rec.Type).
		Int("files", len(ops)).
		Msg("Installed mod")
	return rec, nil
}

// replace moves workDir to modDir. A previous modDir is set aside first and
// restored if the move fails.
func (i *Installer) replace(workDir, modDir string) error {
	backup := modDir + ".previous"
	if err := i.opts.FS.RemoveAll(backup); err != nil {
		return err
	}

	hadPrevious := false
	if _, err := i.opts.FS.Stat(modDir); err == nil {
		if err := i.opts.FS.Rename(modDir, backup); err != nil {
			return err
		}
		hadPrevious = true
	} else if !errors.IsNotExist(err) {
		return err
	}

	if err := i.opts.FS.Rename(workDir, modDir); err != nil {
		if hadPrevious {
			if rerr := i.opts.FS.Rename(backup, modDir); rerr != nil {
				i.logger.Error().Err(rerr).Str("dir", modDir).Msg("Failed to restore previous install")
			}
		}
		return err
	}

	if hadPrevious {
		if err := i.opts.FS.RemoveAll(backup); err != nil {
			i.logger.Warn().Err(err).Str("dir", backup).Msg("Failed to remove previous install")
		}
	}
	return nil
}

func (i *Installer) discard(workDir string) {
	if err := i.opts.FS.RemoveAll(workDir); err != nil {
		i.logger.Warn().Err(err).Str("dir", workDir).Msg("Failed to remove partial install")
	}
}

// resolveInside joins dest below root and rejects paths that leave it
func resolveInside(root, dest string) (string, error) {
	if dest == "" {
		return "", errors.New(errors.ErrInvalidInput, "copy instruction without destination")
	}
	rel := filepath.Clean(filepath.FromSlash(dest))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrInvalidInput, "destination %q escapes the mod folder", dest)
	}
	return filepath.Join(root, rel), nil
}

func copyFileOperation(source, target string) func(context.Context, filesystem.FileSystem) error {
	return func(ctx context.Context, fs filesystem.FileSystem) error {
		parentDir := filepath.Dir(target)
		if err := fs.MkdirAll(parentDir, 0755); err != nil {
			return fmt.Errorf("failed to create parent directory %s: %w", parentDir, err)
		}

		file, err := fs.Open(source)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", source, err)
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", source, err)
		}
		if err := fs.WriteFile(target, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		return nil
	}
}
