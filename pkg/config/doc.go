// Package config handles configuration management for pakmerge.
// It loads the embedded TOML defaults, an optional user configuration file
// and PAKMERGE_ environment variables, in that order of precedence.
package config
