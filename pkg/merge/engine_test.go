// pkg/merge/engine_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: In-memory filesystem, zip codec, file mod store
// PURPOSE: Test dictionary lookup, incremental merging and failure safety

package merge_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/pakmerge/pkg/archive"
	"github.com/arthur-debert/pakmerge/pkg/config"
	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/arthur-debert/pakmerge/pkg/filesystem"
	"github.com/arthur-debert/pakmerge/pkg/merge"
	"github.com/arthur-debert/pakmerge/pkg/modstore"
	"github.com/arthur-debert/pakmerge/pkg/testutil"
	"github.com/arthur-debert/pakmerge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	gameID   = "dyinglight2"
	mergeDir = "/game/merged"
	staging  = "/game/staging"
)

type env struct {
	fs     types.FS
	codec  archive.Codec
	store  modstore.Store
	engine *merge.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	fs := filesystem.NewMemory()
	codec := archive.NewZipCodec(fs, -1)
	return newEnvWithCodec(t, fs, codec)
}

func newEnvWithCodec(t *testing.T, fs types.FS, codec archive.Codec) *env {
	t.Helper()
	store := modstore.New(fs, "/state/mods.toml")
	engine := merge.NewEngine(fs, codec, store, merge.OptionsFromConfig(config.Default()))
	return &env{fs: fs, codec: codec, store: store, engine: engine}
}

// install records a mod and writes its renamed archives to staging
func (e *env) install(t *testing.T, modID string, archives map[string]map[string]string, dict types.PakDictionary) {
	t.Helper()
	rec := &types.ModRecord{ID: modID, GameID: gameID}
	rec.SetAttribute(types.AttributePakDictionary, dict)
	require.NoError(t, e.store.Put(rec))
	for name, files := range archives {
		testutil.WriteZip(t, e.fs, e.stagedPath(modID, name), files)
	}
}

func (e *env) stagedPath(modID, name string) string {
	return filepath.Join(staging, modID, name)
}

func target(original string) string {
	return filepath.Join(mergeDir, "ph", "source", original)
}

func TestMerge_LastWriteWins(t *testing.T) {
	e := newEnv(t)
	e.install(t, "mod-a", map[string]map[string]string{
		"aaaa.pak": {"a.txt": "from A", "b.txt": "B by A"},
	}, types.PakDictionary{"aaaa.pak": "data3.pak"})
	e.install(t, "mod-b", map[string]map[string]string{
		"bbbb.pak": {"b.txt": "B by B", "c.txt": "from B"},
	}, types.PakDictionary{"bbbb.pak": "data3.pak"})

	ctx := context.Background()
	result, err := e.engine.Merge(ctx, merge.Request{ModID: "mod-a", FilePath: e.stagedPath("mod-a", "aaaa.pak"), MergeDir: mergeDir})
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, target("data3.pak"), result.Target)
	assert.Equal(t, map[string]string{"a.txt": "from A", "b.txt": "B by A"}, testutil.ReadZip(t, e.fs, target("data3.pak")))

	_, err = e.engine.Merge(ctx, merge.Request{ModID: "mod-b", FilePath: e.stagedPath("mod-b", "bbbb.pak"), MergeDir: mergeDir})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"a.txt": "from A",
		"b.txt": "B by B",
		"c.txt": "from B",
	}, testutil.ReadZip(t, e.fs, target("data3.pak")))
}

func TestMerge_NestedEntries(t *testing.T) {
	e := newEnv(t)
	e.install(t, "mod-a", map[string]map[string]string{
		"aaaa.pak": {"scripts/player/a.scr": "A", "data/x.txt": "X"},
	}, types.PakDictionary{"aaaa.pak": "data3.pak"})
	e.install(t, "mod-b", map[string]map[string]string{
		"bbbb.pak": {"scripts/player/b.scr": "B"},
	}, types.PakDictionary{"bbbb.pak": "data3.pak"})

	ctx := context.Background()
	_, err := e.engine.Merge(ctx, merge.Request{ModID: "mod-a", FilePath: e.stagedPath("mod-a", "aaaa.pak"), MergeDir: mergeDir})
	require.NoError(t, err)
	_, err = e.engine.Merge(ctx, merge.Request{ModID: "mod-b", FilePath: e.stagedPath("mod-b", "bbbb.pak"), MergeDir: mergeDir})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"scripts/player/a.scr": "A",
		"scripts/player/b.scr": "B",
		"data/x.txt":           "X",
	}, testutil.ReadZip(t, e.fs, target("data3.pak")))
}

func TestMerge_Idempotent(t *testing.T) {
	e := newEnv(t)
	e.install(t, "mod-a", map[string]map[string]string{
		"aaaa.pak": {"a.txt": "A", "dir/b.txt": "B"},
	}, types.PakDictionary{"aaaa.pak": "data3.pak"})

	req := merge.Request{ModID: "mod-a", FilePath: e.stagedPath("mod-a", "aaaa.pak"), MergeDir: mergeDir}
	_, err := e.engine.Merge(context.Background(), req)
	require.NoError(t, err)
	first := testutil.ReadZip(t, e.fs, target("data3.pak"))

	_, err = e.engine.Merge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, testutil.ReadZip(t, e.fs, target("data3.pak")))
}

func TestMerge_DictionaryMissIsNoop(t *testing.T) {
	e := newEnv(t)
	e.install(t, "mod-a", map[string]map[string]string{
		"aaaa.pak": {"a.txt": "A"},
	}, types.PakDictionary{"other.pak": "data3.pak"})
	testutil.WriteFile(t, e.fs, filepath.Join(mergeDir, "keep.txt"), "untouched")
	before := testutil.ListDir(t, e.fs, mergeDir)

	result, err := e.engine.Merge(context.Background(), merge.Request{
		ModID: "mod-a", FilePath: e.stagedPath("mod-a", "aaaa.pak"), MergeDir: mergeDir,
	})
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.NotEmpty(t, result.Reason)
	assert.Equal(t, before, testutil.ListDir(t, e.fs, mergeDir))
	assert.Equal(t, "untouched", testutil.ReadFile(t, e.fs, filepath.Join(mergeDir, "keep.txt")))
}

func TestMerge_UnknownModIsNoop(t *testing.T) {
	e := newEnv(t)
	testutil.WriteZip(t, e.fs, "/loose/aaaa.pak", map[string]string{"a.txt": "A"})

	result, err := e.engine.Merge(context.Background(), merge.Request{
		ModID: "ghost", FilePath: "/loose/aaaa.pak", MergeDir: mergeDir,
	})
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.False(t, testutil.Exists(t, e.fs, mergeDir))

	result, err = e.engine.Merge(context.Background(), merge.Request{
		FilePath: "/loose/aaaa.pak", MergeDir: mergeDir,
	})
	require.NoError(t, err)
	assert.True(t, result.Skipped)
}

func TestMerge_ResolvesOwnerFromPath(t *testing.T) {
	e := newEnv(t)
	e.install(t, "mod", map[string]map[string]string{}, types.PakDictionary{"1111.pak": "data2.pak"})
	e.install(t, "mod-v2", map[string]map[string]string{
		"2222.pak": {"v2.txt": "V2"},
	}, types.PakDictionary{"2222.pak": "data5.pak"})

	result, err := e.engine.Merge(context.Background(), merge.Request{
		FilePath: e.stagedPath("mod-v2", "2222.pak"), MergeDir: mergeDir,
	})
	require.NoError(t, err)
	assert.Equal(t, "mod-v2", result.ModID)
	assert.Equal(t, target("data5.pak"), result.Target)
	assert.Equal(t, map[string]string{"v2.txt": "V2"}, testutil.ReadZip(t, e.fs, target("data5.pak")))
}

func TestMerge_CleansScratchAndPackedFile(t *testing.T) {
	e := newEnv(t)
	e.install(t, "mod-a", map[string]map[string]string{
		"aaaa.pak": {"a.txt": "A"},
	}, types.PakDictionary{"aaaa.pak": "data3.pak"})

	_, err := e.engine.Merge(context.Background(), merge.Request{
		ModID: "mod-a", FilePath: e.stagedPath("mod-a", "aaaa.pak"), MergeDir: mergeDir,
	})
	require.NoError(t, err)

	scratch, err := merge.ScratchPath(mergeDir, "temp", target("data3.pak"))
	require.NoError(t, err)
	assert.False(t, testutil.Exists(t, e.fs, scratch))
	assert.False(t, testutil.Exists(t, e.fs, target("data3.pak")+".zip"))
	assert.Equal(t, []string{"data3.pak"}, testutil.ListDir(t, e.fs, filepath.Join(mergeDir, "ph", "source")))
}

// failingCodec extracts normally and fails when packing
type failingCodec struct {
	archive.Codec
	fs types.FS
}

func (f *failingCodec) Add(ctx context.Context, archivePath string, entries []string, opts archive.AddOptions) error {
	// leave a partial packed file behind, as a crashed packer would
	if w, err := f.fs.Create(archivePath); err == nil {
		_, _ = w.Write([]byte("partial"))
		_ = w.Close()
	}
	return errors.New(errors.ErrArchiveWrite, "disk full")
}

func TestMerge_FailureLeavesTargetUntouched(t *testing.T) {
	fs := filesystem.NewMemory()
	good := newEnvWithCodec(t, fs, archive.NewZipCodec(fs, -1))
	good.install(t, "mod-a", map[string]map[string]string{
		"aaaa.pak": {"a.txt": "A"},
	}, types.PakDictionary{"aaaa.pak": "data3.pak"})
	good.install(t, "mod-b", map[string]map[string]string{
		"bbbb.pak": {"b.txt": "B"},
	}, types.PakDictionary{"bbbb.pak": "data3.pak"})

	_, err := good.engine.Merge(context.Background(), merge.Request{
		ModID: "mod-a", FilePath: good.stagedPath("mod-a", "aaaa.pak"), MergeDir: mergeDir,
	})
	require.NoError(t, err)
	before := testutil.ReadBytes(t, fs, target("data3.pak"))

	bad := newEnvWithCodec(t, fs, &failingCodec{Codec: archive.NewZipCodec(fs, -1), fs: fs})
	_, err = bad.engine.Merge(context.Background(), merge.Request{
		ModID: "mod-b", FilePath: good.stagedPath("mod-b", "bbbb.pak"), MergeDir: mergeDir,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrArchiveWrite))
	assert.Contains(t, err.Error(), "disk full")

	assert.Equal(t, before, testutil.ReadBytes(t, fs, target("data3.pak")))
	assert.False(t, testutil.Exists(t, fs, target("data3.pak")+".zip"))
	scratch, err := merge.ScratchPath(mergeDir, "temp", target("data3.pak"))
	require.NoError(t, err)
	assert.False(t, testutil.Exists(t, fs, scratch))
}

func TestMerge_CorruptIncomingArchive(t *testing.T) {
	e := newEnv(t)
	e.install(t, "mod-a", map[string]map[string]string{}, types.PakDictionary{"aaaa.pak": "data3.pak"})
	testutil.WriteFile(t, e.fs, e.stagedPath("mod-a", "aaaa.pak"), "not a zip")

	_, err := e.engine.Merge(context.Background(), merge.Request{
		ModID: "mod-a", FilePath: e.stagedPath("mod-a", "aaaa.pak"), MergeDir: mergeDir,
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrArchiveRead, errors.GetErrorCode(err))
	assert.Equal(t, e.stagedPath("mod-a", "aaaa.pak"), errors.GetErrorDetails(err)["archive"])
	assert.Equal(t, "mod-a", errors.GetErrorDetails(err)["mod"])
	assert.False(t, testutil.Exists(t, e.fs, target("data3.pak")))
}

func TestMerge_CanceledContext(t *testing.T) {
	e := newEnv(t)
	e.install(t, "mod-a", map[string]map[string]string{
		"aaaa.pak": {"a.txt": "A"},
	}, types.PakDictionary{"aaaa.pak": "data3.pak"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.engine.Merge(ctx, merge.Request{
		ModID: "mod-a", FilePath: e.stagedPath("mod-a", "aaaa.pak"), MergeDir: mergeDir,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMergeFailed))
	assert.False(t, testutil.Exists(t, e.fs, target("data3.pak")))
}

func TestMerge_RealFilesystem(t *testing.T) {
	root := t.TempDir()
	fs := filesystem.NewOS()
	store := modstore.New(fs, filepath.Join(root, "state", "mods.yaml"))
	engine := merge.NewEngine(fs, archive.NewZipCodec(fs, -1), store, merge.OptionsFromConfig(config.Default()))

	rec := &types.ModRecord{ID: "mod-a", GameID: gameID}
	rec.SetAttribute(types.AttributePakDictionary, types.PakDictionary{"aaaa.pak": "data3.pak"})
	require.NoError(t, store.Put(rec))
	incoming := filepath.Join(root, "staging", "mod-a", "aaaa.pak")
	testutil.WriteZip(t, fs, incoming, map[string]string{"a.txt": "A"})

	out := filepath.Join(root, "merged")
	result, err := engine.Merge(context.Background(), merge.Request{ModID: "mod-a", FilePath: incoming, MergeDir: out})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.txt": "A"}, testutil.ReadZip(t, fs, result.Target))
}
