package commands

import (
	"time"

	"github.com/arthur-debert/pakmerge/pkg/archive"
	"github.com/arthur-debert/pakmerge/pkg/config"
	"github.com/arthur-debert/pakmerge/pkg/filesystem"
	"github.com/arthur-debert/pakmerge/pkg/merge"
	"github.com/arthur-debert/pakmerge/pkg/modstore"
	"github.com/arthur-debert/pakmerge/pkg/paths"
	"github.com/arthur-debert/pakmerge/pkg/types"
)

// EnvOptions selects the configuration and data locations
type EnvOptions struct {
	// ConfigPath overrides the user config file; a missing default file is fine
	ConfigPath string
	// DataDir overrides the data directory
	DataDir string
}

// Env bundles what every command needs
type Env struct {
	Config *config.Config
	Paths  paths.Paths
	FS     types.FS
	// Now stamps installs; NewEnvWith sets time.Now
	Now func() time.Time

	store  modstore.Store
	codec  archive.Codec
	engine *merge.Engine
}

// NewEnv loads the configuration and resolves paths
func NewEnv(opts EnvOptions) (*Env, error) {
	p, err := paths.New(opts.DataDir)
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadOptional(p.ConfigFilePath())
	}
	if err != nil {
		return nil, err
	}

	return NewEnvWith(cfg, p, filesystem.NewOS()), nil
}

// NewEnvWith assembles an Env from parts
func NewEnvWith(cfg *config.Config, p paths.Paths, fs types.FS) *Env {
	store := modstore.New(fs, p.StorePath(cfg.Store.File))
	codec := archive.NewZipCodec(fs, cfg.Archive.CompressionLevel)
	return &Env{
		Config: cfg,
		Paths:  p,
		FS:     fs,
		Now:    time.Now,
		store:  store,
		codec:  codec,
		engine: merge.NewEngine(fs, codec, store, merge.OptionsFromConfig(cfg)),
	}
}

// Store returns the mod store
func (e *Env) Store() modstore.Store { return e.store }

// Engine returns the merge engine
func (e *Env) Engine() *merge.Engine { return e.engine }

// Codec returns the archive codec
func (e *Env) Codec() archive.Codec { return e.codec }

// mergeDir returns dir, or the default merge dir when empty
func (e *Env) mergeDir(dir string) string {
	if dir != "" {
		return dir
	}
	return e.Paths.MergeDir()
}
