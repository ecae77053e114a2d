// Package modstore persists installed mod records.
//
// Records, including their attributes such as the pakDictionary written at
// install time, live in a single document under the state directory. The
// document format follows the file extension: TOML by default, YAML for
// .yaml and .yml files.
package modstore
