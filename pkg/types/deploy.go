package types

// DeployedFile is a file the host has deployed, relative to a mod's
// staging folder.
type DeployedFile struct {
	// Source is the mod folder name under the install path
	Source string
	// RelPath is the path relative to the mod folder and the output dir
	RelPath string
}

// BaseFile pairs an absolute source path with its relative output path.
type BaseFile struct {
	In  string
	Out string
}
