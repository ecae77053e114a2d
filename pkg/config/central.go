package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Game holds the identity of the supported game
type Game struct {
	ID         string `koanf:"id"`
	Name       string `koanf:"name"`
	ModType    string `koanf:"mod_type"`
	ModsPath   string `koanf:"mods_path"`
	RootMarker string `koanf:"root_marker"`
	MergeMods  bool   `koanf:"merge_mods"`
}

// Archive holds archive naming and packing settings
type Archive struct {
	Extension        string `koanf:"extension"`
	PackingExtension string `koanf:"packing_extension"`
	CompressionLevel int    `koanf:"compression_level"`
}

// Catalog holds install-time cataloging settings
type Catalog struct {
	NamePattern  string `koanf:"name_pattern"`
	FallbackName string `koanf:"fallback_name"`
}

// Merge holds deploy-time merge settings
type Merge struct {
	ScratchDir  string `koanf:"scratch_dir"`
	Concurrency int    `koanf:"concurrency"`
}

// Store holds the mod store settings
type Store struct {
	File string `koanf:"file"`
}

// Logging holds logging settings
type Logging struct {
	Verbosity int `koanf:"verbosity"`
}

// Config is the complete pakmerge configuration
type Config struct {
	Game    Game    `koanf:"game"`
	Archive Archive `koanf:"archive"`
	Catalog Catalog `koanf:"catalog"`
	Merge   Merge   `koanf:"merge"`
	Store   Store   `koanf:"store"`
	Logging Logging `koanf:"logging"`
}

// Default returns the configuration built from the embedded defaults only.
func Default() *Config {
	cfg, err := load("", false)
	if err != nil {
		// The embedded defaults are part of the binary; failing to parse
		// them is a build defect.
		panic(fmt.Sprintf("invalid embedded defaults: %v", err))
	}
	return cfg
}

// Validate checks that required settings are present and consistent.
func (c *Config) Validate() error {
	var problems []string

	if c.Game.ID == "" {
		problems = append(problems, "game.id is required")
	}
	if c.Game.ModType == "" {
		problems = append(problems, "game.mod_type is required")
	}
	if !strings.HasPrefix(c.Archive.Extension, ".") || len(c.Archive.Extension) < 2 {
		problems = append(problems, fmt.Sprintf("archive.extension %q must start with a dot", c.Archive.Extension))
	}
	if !strings.HasPrefix(c.Archive.PackingExtension, ".") || len(c.Archive.PackingExtension) < 2 {
		problems = append(problems, fmt.Sprintf("archive.packing_extension %q must start with a dot", c.Archive.PackingExtension))
	}
	if strings.EqualFold(c.Archive.Extension, c.Archive.PackingExtension) {
		problems = append(problems, "archive.packing_extension must differ from archive.extension")
	}
	if c.Archive.CompressionLevel < -1 || c.Archive.CompressionLevel > 9 {
		problems = append(problems, fmt.Sprintf("archive.compression_level %d out of range", c.Archive.CompressionLevel))
	}
	if c.Merge.ScratchDir == "" {
		problems = append(problems, "merge.scratch_dir is required")
	}
	if c.Merge.Concurrency < 1 {
		problems = append(problems, "merge.concurrency must be at least 1")
	}
	if c.Store.File == "" {
		problems = append(problems, "store.file is required")
	}
	if (c.Catalog.NamePattern == "") != (c.Catalog.FallbackName == "") {
		problems = append(problems, "catalog.name_pattern and catalog.fallback_name must be set together")
	}
	if c.Catalog.NamePattern != "" {
		if _, err := regexp.Compile(c.Catalog.NamePattern); err != nil {
			problems = append(problems, fmt.Sprintf("catalog.name_pattern: %v", err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// GameInfo is the mod type registration for the supported game
type GameInfo struct {
	GameID    string
	ModType   string
	ModsPath  string
	Extension string
	// MergeMods tells the host the mod type merges rather than overwrites
	MergeMods bool
}

// GameInfo returns the mod type registration derived from the configuration
func (c *Config) GameInfo() GameInfo {
	return GameInfo{
		GameID:    c.Game.ID,
		ModType:   c.Game.ModType,
		ModsPath:  c.Game.ModsPath,
		Extension: c.Archive.Extension,
		MergeMods: c.Game.MergeMods,
	}
}
