package build

import (
	"os"
	"path/filepath"
)

// FindModuleRoot walks up from dir until it finds a directory containing
// go.mod. It returns os.ErrNotExist when none is found.
func FindModuleRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
