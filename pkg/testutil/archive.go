package testutil

import (
	"io"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/arthur-debert/pakmerge/pkg/types"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// WriteZip writes a zip archive at name holding files (entry name -> content),
// entries sorted by name
func WriteZip(t *testing.T, fsys types.FS, name string, files map[string]string) {
	t.Helper()

	require.NoError(t, fsys.MkdirAll(filepath.Dir(name), 0755))
	f, err := fsys.Create(name)
	require.NoError(t, err)

	entryNames := make([]string, 0, len(files))
	for entry := range files {
		entryNames = append(entryNames, entry)
	}
	sort.Strings(entryNames)

	zw := zip.NewWriter(f)
	for _, entry := range entryNames {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: entry, Method: zip.Deflate})
		require.NoError(t, err)
		_, err = w.Write([]byte(files[entry]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

// ReadZip returns the file entries of the archive at name (entry name -> content).
// Directory entries are skipped.
func ReadZip(t *testing.T, fsys types.FS, name string) map[string]string {
	t.Helper()

	f, err := fsys.Open(name)
	require.NoError(t, err)
	defer f.Close()
	info, err := f.Stat()
	require.NoError(t, err)

	zr, err := zip.NewReader(f, info.Size())
	require.NoError(t, err)

	out := make(map[string]string, len(zr.File))
	for _, zf := range zr.File {
		if strings.HasSuffix(zf.Name, "/") {
			continue
		}
		rc, err := zf.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[zf.Name] = string(data)
	}
	return out
}

// ReadBytes returns the raw bytes of name
func ReadBytes(t *testing.T, fsys types.FS, name string) []byte {
	t.Helper()

	f, err := fsys.Open(name)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return data
}
