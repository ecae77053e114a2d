// Package paths provides centralized path handling for pakmerge.
// It follows the XDG Base Directory specification for the staging area,
// merge output, mod store and log file, with PAKMERGE_ overrides.
package paths
