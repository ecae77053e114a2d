package pakmerge

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Install and merge Dying Light 2 pak mods"
	MsgInstallShort    = "Install a mod package"
	MsgInstallLong     = "Install catalogs the archives of an extracted mod package, copies it to staging and records which game archive each renamed archive merges into."
	MsgMergeShort      = "Merge one renamed archive into its game archive"
	MsgDeployShort     = "Merge the archives of all installed mods"
	MsgShowShort       = "Show installed mods and their archive dictionaries"
	MsgRemoveShort     = "Remove an installed mod"
	MsgGenConfigShort  = "Print or write a commented default configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flags
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file (default $XDG_CONFIG_HOME/pakmerge/config.toml)"
	MsgFlagDataDir  = "Data directory holding staged mods and merge output"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagModID    = "Mod id (defaults to the package folder name)"
	MsgFlagMergeDir = "Merge output directory (defaults to the data directory)"
	MsgFlagGame     = "Game the package targets (defaults to the configured game)"
	MsgFlagOwner    = "Id of the mod that owns the archive"
	MsgFlagRebuild  = "Clear merged archives before merging"
	MsgFlagFirst    = "Never prompt; pick the first variant of each archive"
	MsgFlagWrite    = "Write the configuration file instead of printing it"

	// Status messages
	MsgInstalled      = "Installed %s (%d archives)"
	MsgMergeSkipped   = "Nothing merged for %s: %s"
	MsgMerged         = "Merged %s into %s"
	MsgRemoved        = "Removed %s"
	MsgConfigWritten  = "Wrote %s"
	MsgConfigExists   = "%s already exists"
	MsgVersionFormat  = "pakmerge version %s\n  commit: %s\n  built:  %s\n"
	MsgDeployFailures = "%d archives failed to merge"
)

var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
