package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/pakmerge/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for pakmerge
	EnvDataDir = "PAKMERGE_DATA_DIR"

	// EnvStateDir overrides the XDG state directory for pakmerge
	EnvStateDir = "PAKMERGE_STATE_DIR"

	// EnvConfigDir overrides the XDG config directory for pakmerge
	EnvConfigDir = "PAKMERGE_CONFIG_DIR"
)

// Fixed layout below the XDG directories. These are not user-configurable.
const (
	// AppDirName is the directory name for pakmerge-specific files
	AppDirName = "pakmerge"

	// ModsDir holds one staging folder per installed mod
	ModsDir = "mods"

	// MergedDir is the default merge output root
	MergedDir = "merged"

	// ConfigFileName is the user configuration file name
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "pakmerge.log"
)

// Paths provides centralized path management for pakmerge
type Paths interface {
	DataDir() string
	StateDir() string
	ConfigDir() string
	StagingDir() string
	ModStagingPath(modID string) string
	MergeDir() string
	StorePath(fileName string) string
	ConfigFilePath() string
	LogFilePath() string
}

type paths struct {
	dataDir   string
	stateDir  string
	configDir string
}

// New creates a Paths instance from the environment. dataDir, when not
// empty, takes precedence over PAKMERGE_DATA_DIR and XDG_DATA_HOME.
func New(dataDir string) (Paths, error) {
	p := &paths{}

	switch {
	case dataDir != "":
		p.dataDir = expandHome(dataDir)
	case os.Getenv(EnvDataDir) != "":
		p.dataDir = expandHome(os.Getenv(EnvDataDir))
	default:
		p.dataDir = filepath.Join(xdg.DataHome, AppDirName)
	}

	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.stateDir = expandHome(stateDir)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.configDir = expandHome(configDir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	for _, dir := range []*string{&p.dataDir, &p.stateDir, &p.configDir} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", *dir)
		}
		*dir = abs
	}

	return p, nil
}

func (p *paths) DataDir() string   { return p.dataDir }
func (p *paths) StateDir() string  { return p.stateDir }
func (p *paths) ConfigDir() string { return p.configDir }

// StagingDir is the install path: one folder per mod
func (p *paths) StagingDir() string {
	return filepath.Join(p.dataDir, ModsDir)
}

// ModStagingPath returns the staging folder for a mod
func (p *paths) ModStagingPath(modID string) string {
	return filepath.Join(p.StagingDir(), modID)
}

// MergeDir returns the default merge output root
func (p *paths) MergeDir() string {
	return filepath.Join(p.dataDir, MergedDir)
}

// StorePath returns the mod store file path
func (p *paths) StorePath(fileName string) string {
	return filepath.Join(p.stateDir, fileName)
}

func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// expandHome expands ~ to the user's home directory
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
