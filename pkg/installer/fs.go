package installer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/pakmerge/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

// synthFS exposes a types.FS to synthfs. synthfs hands it paths relative to
// root, the same contract as filesystem.OSFileSystem.
type synthFS struct {
	fs   types.FS
	root string
}

var _ filesystem.FullFileSystem = (*synthFS)(nil)

func newSynthFS(fsys types.FS, root string) *synthFS {
	return &synthFS{fs: fsys, root: root}
}

func (s *synthFS) resolve(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	return filepath.Join(s.root, filepath.FromSlash(name)), nil
}

func (s *synthFS) Open(name string) (fs.File, error) {
	p, err := s.resolve("open", name)
	if err != nil {
		return nil, err
	}
	return s.fs.Open(p)
}

func (s *synthFS) Stat(name string) (fs.FileInfo, error) {
	p, err := s.resolve("stat", name)
	if err != nil {
		return nil, err
	}
	return s.fs.Stat(p)
}

func (s *synthFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	p, err := s.resolve("write", name)
	if err != nil {
		return err
	}
	f, err := s.fs.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s *synthFS) MkdirAll(path string, perm fs.FileMode) error {
	p, err := s.resolve("mkdir", path)
	if err != nil {
		return err
	}
	return s.fs.MkdirAll(p, perm)
}

func (s *synthFS) Remove(name string) error {
	p, err := s.resolve("remove", name)
	if err != nil {
		return err
	}
	return s.fs.Remove(p)
}

func (s *synthFS) RemoveAll(name string) error {
	p, err := s.resolve("removeall", name)
	if err != nil {
		return err
	}
	return s.fs.RemoveAll(p)
}

func (s *synthFS) Rename(oldpath, newpath string) error {
	from, err := s.resolve("rename", oldpath)
	if err != nil {
		return err
	}
	to, err := s.resolve("rename", newpath)
	if err != nil {
		return err
	}
	return s.fs.Rename(from, to)
}

// Symlink is not needed by copy instructions
func (s *synthFS) Symlink(oldname, newname string) error {
	return &fs.PathError{Op: "symlink", Path: newname, Err: fmt.Errorf("symlinks are not supported")}
}

func (s *synthFS) Readlink(name string) (string, error) {
	return "", &fs.PathError{Op: "readlink", Path: name, Err: fmt.Errorf("symlinks are not supported")}
}
