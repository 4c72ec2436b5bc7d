package imgconv

import (
	"path/filepath"

	"github.com/rs/xid"
	"github.com/spf13/afero"
)

func tmpName(name string) string {
	return filepath.Join(filepath.Dir(name), "."+filepath.Base(name)+"."+xid.New().String())
}

// stageFile writes b in full to a hidden sibling of name and returns the
// sibling's path. Nothing is left behind on failure.
func stageFile(fs afero.Fs, name string, b []byte) (string, error) {
	tmp := tmpName(name)

	if err := afero.WriteFile(fs, tmp, b, 0644); err != nil {
		_ = fs.Remove(tmp)
		return "", &WriteError{Path: name, Err: err}
	}

	return tmp, nil
}

// commitFile renames a staged file into place
func commitFile(fs afero.Fs, tmp, name string) error {
	if err := fs.Rename(tmp, name); err != nil {
		_ = fs.Remove(tmp)
		return &WriteError{Path: name, Err: err}
	}
	return nil
}

// writeFile writes b to a hidden sibling of name and renames it into place
// so name is either absent, unchanged or complete.
func writeFile(fs afero.Fs, name string, b []byte) error {
	tmp, err := stageFile(fs, name, b)
	if err != nil {
		return err
	}
	return commitFile(fs, tmp, name)
}
