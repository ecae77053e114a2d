package commands

import (
	"path"
	"path/filepath"

	"github.com/arthur-debert/pakmerge/pkg/types"
)

// listPackage lists the files below root the way a mod manager hands a
// package's contents to an installer: slash-separated paths relative to
// root, directories with a trailing slash, parents before children.
func listPackage(fs types.FS, root string) ([]string, error) {
	var out []string
	var walk func(dir, rel string) error
	walk = func(dir, rel string) error {
		entries, err := fs.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			childRel := path.Join(rel, entry.Name())
			if entry.IsDir() {
				out = append(out, childRel+"/")
				if err := walk(filepath.Join(dir, entry.Name()), childRel); err != nil {
					return err
				}
				continue
			}
			out = append(out, childRel)
		}
		return nil
	}
	if err := walk(root, ""); err != nil {
		return nil, err
	}
	return out, nil
}

// deployedFiles lists the files of a staged mod as deployed files
func deployedFiles(fs types.FS, stagingDir, modID string) ([]types.DeployedFile, error) {
	files, err := listPackage(fs, filepath.Join(stagingDir, modID))
	if err != nil {
		return nil, err
	}
	var out []types.DeployedFile
	for _, f := range files {
		if f[len(f)-1] == '/' {
			continue
		}
		out = append(out, types.DeployedFile{Source: modID, RelPath: filepath.FromSlash(f)})
	}
	return out, nil
}
