package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsafePath = errors.New("unsafe path")

// DataPath validates and prepares the on-disk locations the app writes to:
// the bbolt database and the debug log.
type DataPath struct {
	home string
}

func NewDataPath() *DataPath {
	home, _ := os.UserHomeDir()
	return &DataPath{home: home}
}

// Resolve expands a leading ~/, cleans the path and makes it absolute.
func (d *DataPath) Resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsafePath)
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("%w: null byte", ErrUnsafePath)
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q contains ..", ErrUnsafePath, path)
		}
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if d.home == "" {
			return "", fmt.Errorf("%w: no home directory to expand ~", ErrUnsafePath)
		}
		path = filepath.Join(d.home, strings.TrimPrefix(path[1:], "/"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", path, err)
	}
	return abs, nil
}

// PrepareFile resolves path, refuses directories and creates the parent
// directory.
func (d *DataPath) PrepareFile(path string) (string, error) {
	abs, err := d.Resolve(path)
	if err != nil {
		return "", err
	}
	if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrUnsafePath, abs)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(abs), err)
	}
	return abs, nil
}
