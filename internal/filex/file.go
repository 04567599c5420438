// Package filex contains filesystem helpers for the per-application private
// data directory.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// userConfigDir is a seam for tests.
var userConfigDir = os.UserConfigDir

// PrivateDir returns <user config dir>/<appName>, the default location of
// the key file, credential records and the local database.
func PrivateDir(appName string) (string, error) {
	base, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// EnsureDir creates dir (and parents) with owner-only permissions and returns
// it unchanged. An existing non-directory at that path is an error.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers never observe a half-written record.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
