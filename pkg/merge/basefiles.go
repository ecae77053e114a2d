package merge

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/arthur-debert/pakmerge/pkg/types"
)

// Filter reports whether path is an archive handled by the merge pipeline
func Filter(path, extension string) bool {
	return strings.EqualFold(filepath.Ext(path), extension)
}

// BaseFiles selects the deployed archives, paired with their absolute
// source below installPath and their output path relative to the merge dir.
func BaseFiles(installPath string, deployed []types.DeployedFile, extension string) []types.BaseFile {
	var out []types.BaseFile
	for _, file := range deployed {
		if !Filter(file.RelPath, extension) {
			continue
		}
		out = append(out, types.BaseFile{
			In:  filepath.Join(installPath, file.Source, file.RelPath),
			Out: file.RelPath,
		})
	}
	return out
}

// EnsureModsPath creates the mods path below mergeDir and returns it
func (e *Engine) EnsureModsPath(mergeDir string) (string, error) {
	dir := filepath.Join(mergeDir, filepath.FromSlash(e.opts.ModsPath))
	if err := e.fs.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create mods path %s", dir)
	}
	return dir, nil
}
