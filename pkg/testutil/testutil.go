package testutil

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/arthur-debert/pakmerge/pkg/types"
	"github.com/stretchr/testify/require"
)

// WriteFile writes content to name, creating parent directories
func WriteFile(t *testing.T, fsys types.FS, name, content string) {
	t.Helper()

	require.NoError(t, fsys.MkdirAll(filepath.Dir(name), 0755))
	f, err := fsys.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

// ReadFile returns the content of name
func ReadFile(t *testing.T, fsys types.FS, name string) string {
	t.Helper()

	f, err := fsys.Open(name)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(data)
}

// Exists reports whether name exists; errors other than not-found fail the test
func Exists(t *testing.T, fsys types.FS, name string) bool {
	t.Helper()

	_, err := fsys.Stat(name)
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	require.NoError(t, err)
	return false
}

// ListDir returns the sorted entry names of dir, or nil when it is missing
func ListDir(t *testing.T, fsys types.FS, dir string) []string {
	t.Helper()

	entries, err := fsys.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}
