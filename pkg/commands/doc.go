// Package commands provides the command implementations behind the CLI.
//
// Each command takes an Env, built once per invocation from the
// configuration and XDG paths, plus an options struct, and returns a result
// the CLI renders. Commands never print.
package commands
