package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "dyinglight2", cfg.Game.ID)
	assert.Equal(t, "dying-light-2-pak-merger", cfg.Game.ModType)
	assert.Equal(t, "ph/source", cfg.Game.ModsPath)
	assert.Equal(t, "ph", cfg.Game.RootMarker)
	assert.True(t, cfg.Game.MergeMods)
	assert.Equal(t, ".pak", cfg.Archive.Extension)
	assert.Equal(t, ".zip", cfg.Archive.PackingExtension)
	assert.Equal(t, -1, cfg.Archive.CompressionLevel)
	assert.Equal(t, "temp", cfg.Merge.ScratchDir)
	assert.Equal(t, 4, cfg.Merge.Concurrency)
	assert.Equal(t, "mods.toml", cfg.Store.File)
	assert.Empty(t, cfg.Catalog.NamePattern)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("loads_user_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
[merge]
concurrency = 1
scratch_dir = "scratch"

[catalog]
name_pattern = '^data[0-9]*\.pak$'
fallback_name = "data2.pak"
`), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Merge.Concurrency)
		assert.Equal(t, "scratch", cfg.Merge.ScratchDir)
		assert.Equal(t, "data2.pak", cfg.Catalog.FallbackName)
		// untouched sections keep their defaults
		assert.Equal(t, ".pak", cfg.Archive.Extension)
	})

	t.Run("env_overrides_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[merge]\nconcurrency = 1\n"), 0644))

		t.Setenv("PAKMERGE_MERGE_CONCURRENCY", "8")
		t.Setenv("PAKMERGE_STORE_FILE", "mods.yaml")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Merge.Concurrency)
		assert.Equal(t, "mods.yaml", cfg.Store.File)
	})

	t.Run("missing_file_is_an_error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("missing_file_is_optional", func(t *testing.T) {
		cfg, err := LoadOptional(filepath.Join(t.TempDir(), "nope.toml"))
		require.NoError(t, err)
		assert.Equal(t, "dyinglight2", cfg.Game.ID)
	})

	t.Run("invalid_values_fail_validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[archive]\nextension = \"pak\"\n"), 0644))

		_, err := Load(path)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
		assert.Contains(t, err.Error(), "archive.extension")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"missing_game_id", func(c *Config) { c.Game.ID = "" }, "game.id"},
		{"same_extensions", func(c *Config) { c.Archive.PackingExtension = ".PAK" }, "must differ"},
		{"bad_level", func(c *Config) { c.Archive.CompressionLevel = 12 }, "compression_level"},
		{"zero_concurrency", func(c *Config) { c.Merge.Concurrency = 0 }, "merge.concurrency"},
		{"pattern_without_fallback", func(c *Config) { c.Catalog.NamePattern = "^data" }, "set together"},
		{"bad_pattern", func(c *Config) {
			c.Catalog.NamePattern = "("
			c.Catalog.FallbackName = "data2.pak"
		}, "catalog.name_pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "merge.scratch_dir", envKey("PAKMERGE_MERGE_SCRATCH_DIR"))
	assert.Equal(t, "game.id", envKey("PAKMERGE_GAME_ID"))
}

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()

	assert.Contains(t, content, "[game]")
	assert.Contains(t, content, `# id = "dyinglight2"`)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Errorf("uncommented value line: %q", line)
	}
}

func TestGenerateConfigContent_OverridesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(GenerateConfigContent()), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestGameInfo(t *testing.T) {
	info := Default().GameInfo()

	assert.Equal(t, GameInfo{
		GameID:    "dyinglight2",
		ModType:   "dying-light-2-pak-merger",
		ModsPath:  "ph/source",
		Extension: ".pak",
		MergeMods: true,
	}, info)
}
