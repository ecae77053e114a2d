// cmd/pakmerge/root_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (t.TempDir), cobra command tree
// PURPOSE: Test command wiring, flags and output of the pakmerge CLI

package pakmerge

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/pakmerge/pkg/filesystem"
	"github.com/arthur-debert/pakmerge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	root      string
	dataDir   string
	downloads string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	root := t.TempDir()
	t.Setenv("PAKMERGE_STATE_DIR", filepath.Join(root, "state"))
	t.Setenv("PAKMERGE_CONFIG_DIR", filepath.Join(root, "config"))
	t.Setenv("PAKMERGE_DATA_DIR", "")
	return &cliEnv{
		root:      root,
		dataDir:   filepath.Join(root, "data"),
		downloads: filepath.Join(root, "downloads"),
	}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--data-dir", e.dataDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e *cliEnv) writeMod(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(e.downloads, name)
	testutil.WriteZip(t, filesystem.NewOS(), filepath.Join(dir, "ph", "source", "data3.pak"), files)
	return dir
}

func TestRootCmd_Structure(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "pakmerge", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"install", "merge", "deploy", "show", "remove", "genconfig", "version", "completion"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	for _, flag := range []string{"verbose", "config", "data-dir", "format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestRootCmd_NoCommand(t *testing.T) {
	e := newCLIEnv(t)
	_, err := e.run(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestVersionCmd(t *testing.T) {
	e := newCLIEnv(t)
	out, err := e.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pakmerge version dev")
}

func TestGenConfigCmd(t *testing.T) {
	e := newCLIEnv(t)

	out, err := e.run(t, "genconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "[game]")

	configPath := filepath.Join(e.root, "custom.toml")
	_, err = e.run(t, "--config", configPath, "genconfig", "--write")
	require.NoError(t, err)
	assert.True(t, testutil.Exists(t, filesystem.NewOS(), configPath))

	_, err = e.run(t, "--config", configPath, "genconfig", "--write")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInstallDeployShowRemove(t *testing.T) {
	e := newCLIEnv(t)
	fs := filesystem.NewOS()
	first := e.writeMod(t, "first", map[string]string{"shared.txt": "first", "a.txt": "A"})
	second := e.writeMod(t, "second", map[string]string{"shared.txt": "second"})

	out, err := e.run(t, "--format", "text", "install", "--first-variant", first)
	require.NoError(t, err)
	assert.Contains(t, out, "Installed first (1 archives)")

	_, err = e.run(t, "--format", "text", "install", "--first-variant", "--id", "later", second)
	require.NoError(t, err)

	out, err = e.run(t, "--format", "json", "show")
	require.NoError(t, err)
	var mods []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &mods))
	require.Len(t, mods, 2)

	_, err = e.run(t, "--format", "text", "deploy")
	require.NoError(t, err)

	target := filepath.Join(e.dataDir, "merged", "ph", "source", "data3.pak")
	entries := testutil.ReadZip(t, fs, target)
	assert.Equal(t, "second", entries["shared.txt"])
	assert.Equal(t, "A", entries["a.txt"])

	out, err = e.run(t, "--format", "text", "remove", "later")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed later")

	_, err = e.run(t, "--format", "text", "deploy")
	require.NoError(t, err)
	entries = testutil.ReadZip(t, fs, target)
	assert.Equal(t, "first", entries["shared.txt"])
}

func TestRemoveCmd_Unknown(t *testing.T) {
	e := newCLIEnv(t)
	_, err := e.run(t, "remove", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MOD_NOT_FOUND")
}

func TestRootCmd_BadFormat(t *testing.T) {
	e := newCLIEnv(t)
	_, err := e.run(t, "--format", "xml", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
