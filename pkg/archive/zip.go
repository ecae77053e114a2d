package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/arthur-debert/pakmerge/pkg/logging"
	"github.com/arthur-debert/pakmerge/pkg/types"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
)

// ZipCodec reads and writes zip-format archives through a types.FS
type ZipCodec struct {
	fs     types.FS
	level  int
	logger zerolog.Logger
}

// NewZipCodec creates a zip codec. level is a flate compression level
// (-1 for the default).
func NewZipCodec(fsys types.FS, level int) *ZipCodec {
	return &ZipCodec{
		fs:     fsys,
		level:  level,
		logger: logging.GetLogger("archive"),
	}
}

var _ Codec = (*ZipCodec)(nil)

// openReader opens archivePath and returns a zip reader over it. The
// returned file must be closed by the caller.
func (c *ZipCodec) openReader(archivePath string) (*zip.Reader, types.File, error) {
	f, err := c.fs.Open(archivePath)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, nil, errors.Wrapf(err, errors.ErrArchiveRead, "failed to read archive %s", archivePath).
			WithDetail("archive", archivePath)
	}
	return r, f, nil
}

// ExtractFull implements Codec
func (c *ZipCodec) ExtractFull(ctx context.Context, archivePath, destDir string) error {
	r, f, err := c.openReader(archivePath)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrArchiveRead) {
			return err
		}
		return errors.Wrapf(err, errors.ErrArchiveRead, "failed to open archive %s", archivePath).
			WithDetail("archive", archivePath)
	}
	defer f.Close()

	if err := c.fs.MkdirAll(destDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", destDir)
	}

	for _, zf := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		name, err := sanitizeName(zf.Name)
		if err != nil {
			return errors.Wrapf(err, errors.ErrArchiveInvalid, "invalid entry in %s", archivePath).
				WithDetail("archive", archivePath).
				WithDetail("entry", zf.Name)
		}
		if name == "" {
			continue
		}
		target := filepath.Join(destDir, filepath.FromSlash(name))

		if zf.FileInfo().IsDir() {
			if err := c.fs.MkdirAll(target, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", target)
			}
			continue
		}

		if err := c.extractFile(zf, target); err != nil {
			return errors.Wrapf(err, errors.ErrArchiveRead, "failed to extract %s from %s", zf.Name, archivePath).
				WithDetail("archive", archivePath).
				WithDetail("entry", zf.Name)
		}
	}

	c.logger.Debug().
		Str("archive", archivePath).
		Str("dest", destDir).
		Int("entries", len(r.File)).
		Msg("Extracted archive")
	return nil
}

func (c *ZipCodec) extractFile(zf *zip.File, target string) error {
	if err := c.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	if info, err := c.fs.Stat(target); err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory", target)
	}

	src, err := zf.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := c.fs.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// sanitizeName normalizes an entry name and rejects names that would escape
// the extraction directory.
func sanitizeName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") || (len(name) > 1 && name[1] == ':') {
		return "", fmt.Errorf("absolute entry name %q", name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", fmt.Errorf("entry name %q escapes the archive root", name)
		}
	}
	cleaned := path.Clean(name)
	if cleaned == "." {
		return "", nil
	}
	return cleaned, nil
}

// pendingEntry is a filesystem entry scheduled for writing
type pendingEntry struct {
	name  string // archive name, slash separated
	path  string // filesystem path
	info  fs.FileInfo
	isDir bool
}

// Add implements Codec
func (c *ZipCodec) Add(ctx context.Context, archivePath string, entries []string, opts AddOptions) error {
	var pending []pendingEntry
	for _, entry := range entries {
		collected, err := c.collect(entry, opts.Recursive)
		if err != nil {
			return errors.Wrapf(err, errors.ErrArchiveWrite, "failed to collect %s", entry).
				WithDetail("archive", archivePath)
		}
		pending = append(pending, collected...)
	}

	added := make(map[string]bool, len(pending))
	for _, p := range pending {
		added[p.name] = true
	}

	var existing *zip.Reader
	if r, f, err := c.openReader(archivePath); err == nil {
		defer f.Close()
		existing = r
	} else if !errors.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrArchiveWrite, "failed to open existing archive %s", archivePath).
			WithDetail("archive", archivePath)
	}

	tmpPath := archivePath + ".partial"
	if err := c.writeArchive(ctx, tmpPath, existing, added, pending); err != nil {
		_ = c.fs.Remove(tmpPath)
		return errors.Wrapf(err, errors.ErrArchiveWrite, "failed to write archive %s", archivePath).
			WithDetail("archive", archivePath)
	}
	if err := c.fs.Rename(tmpPath, archivePath); err != nil {
		_ = c.fs.Remove(tmpPath)
		return errors.Wrapf(err, errors.ErrArchiveWrite, "failed to move archive into place at %s", archivePath).
			WithDetail("archive", archivePath)
	}

	c.logger.Debug().
		Str("archive", archivePath).
		Int("entries", len(pending)).
		Bool("recursive", opts.Recursive).
		Msg("Packed archive")
	return nil
}

func (c *ZipCodec) writeArchive(ctx context.Context, target string, existing *zip.Reader, added map[string]bool, pending []pendingEntry) error {
	if err := c.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	out, err := c.fs.Create(target)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	level := c.level
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})

	writeErr := func() error {
		if existing != nil {
			for _, zf := range existing.File {
				if added[strings.TrimSuffix(zf.Name, "/")] {
					continue
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := copyEntry(zw, zf); err != nil {
					return err
				}
			}
		}
		for _, p := range pending {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.writeEntry(zw, p); err != nil {
				return err
			}
		}
		return zw.Close()
	}()

	closeErr := out.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

func copyEntry(zw *zip.Writer, zf *zip.File) error {
	header := zf.FileHeader
	w, err := zw.CreateHeader(&header)
	if err != nil {
		return err
	}
	if zf.FileInfo().IsDir() {
		return nil
	}
	src, err := zf.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(w, src)
	return err
}

func (c *ZipCodec) writeEntry(zw *zip.Writer, p pendingEntry) error {
	header, err := zip.FileInfoHeader(p.info)
	if err != nil {
		return err
	}
	header.Name = p.name
	if p.isDir {
		header.Name += "/"
		header.Method = zip.Store
		header.UncompressedSize64 = 0
		header.CompressedSize64 = 0
	} else {
		header.Method = zip.Deflate
	}

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	if p.isDir {
		return nil
	}

	src, err := c.fs.Open(p.path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(w, src)
	return err
}

// collect expands one Add entry into the files and directories to store,
// parents before children, siblings sorted by name.
func (c *ZipCodec) collect(entry string, recursive bool) ([]pendingEntry, error) {
	info, err := c.fs.Stat(entry)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(entry)
	root := pendingEntry{name: base, path: entry, info: info, isDir: info.IsDir()}
	if !info.IsDir() || !recursive {
		return []pendingEntry{root}, nil
	}

	out := []pendingEntry{root}
	var walk func(dir, prefix string) error
	walk = func(dir, prefix string) error {
		children, err := c.fs.ReadDir(dir)
		if err != nil {
			return err
		}
		sort.Slice(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })
		for _, child := range children {
			childPath := filepath.Join(dir, child.Name())
			childInfo, err := child.Info()
			if err != nil {
				return err
			}
			name := prefix + "/" + child.Name()
			out = append(out, pendingEntry{name: name, path: childPath, info: childInfo, isDir: child.IsDir()})
			if child.IsDir() {
				if err := walk(childPath, name); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(entry, base); err != nil {
		return nil, err
	}
	return out, nil
}

// List implements Codec
func (c *ZipCodec) List(ctx context.Context, archivePath string) ([]Entry, error) {
	r, f, err := c.openReader(archivePath)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrArchiveRead) {
			return nil, err
		}
		return nil, errors.Wrapf(err, errors.ErrArchiveRead, "failed to open archive %s", archivePath).
			WithDetail("archive", archivePath)
	}
	defer f.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, zf := range r.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Name:  zf.Name,
			Size:  zf.UncompressedSize64,
			CRC32: zf.CRC32,
			IsDir: zf.FileInfo().IsDir(),
		})
	}
	return entries, nil
}
