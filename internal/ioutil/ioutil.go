// Package ioutil collects the small file/byte helpers the CLI commands
// share: reading a source file's raw bytes and writing converted output
// back to disk. objinv's core deliberately stays agnostic of where bytes
// come from (spec.md's Inventory sources are in-memory []byte/string/dict
// values); this package is the external I/O collaborator that gets those
// bytes on and off disk for cmd/.
package ioutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReadFile reads the full contents of path, wrapping any error with the
// path for easier diagnosis in CLI output.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// WriteFile writes data to path with the given permissions, creating any
// missing parent directories first.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// EnsureDir creates dir and any missing parents, a no-op if dir is empty
// or already exists.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
