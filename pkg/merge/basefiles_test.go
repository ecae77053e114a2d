// pkg/merge/basefiles_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: In-memory filesystem for EnsureModsPath
// PURPOSE: Test archive selection for the merge pipeline

package merge_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/pakmerge/pkg/merge"
	"github.com/arthur-debert/pakmerge/pkg/testutil"
	"github.com/arthur-debert/pakmerge/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"data3.pak", true},
		{"DATA3.PAK", true},
		{"ph/source/0a1b.pak", true},
		{"data3.pak.zip", false},
		{"readme.txt", false},
		{"pak", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, merge.Filter(tt.path, ".pak"))
		})
	}
}

func TestBaseFiles(t *testing.T) {
	deployed := []types.DeployedFile{
		{Source: "mod-a", RelPath: "aaaa.pak"},
		{Source: "mod-a", RelPath: filepath.Join("ph", "x.scr")},
		{Source: "mod-b", RelPath: "bbbb.PAK"},
	}

	got := merge.BaseFiles("/staging", deployed, ".pak")

	assert.Equal(t, []types.BaseFile{
		{In: filepath.Join("/staging", "mod-a", "aaaa.pak"), Out: "aaaa.pak"},
		{In: filepath.Join("/staging", "mod-b", "bbbb.PAK"), Out: "bbbb.PAK"},
	}, got)
	assert.Empty(t, merge.BaseFiles("/staging", nil, ".pak"))
}

func TestEnsureModsPath(t *testing.T) {
	e := newEnv(t)

	dir, err := e.engine.EnsureModsPath(mergeDir)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(mergeDir, "ph", "source"), dir)
	assert.True(t, testutil.Exists(t, e.fs, dir))

	// idempotent
	_, err = e.engine.EnsureModsPath(mergeDir)
	assert.NoError(t, err)
}
