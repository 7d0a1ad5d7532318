package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	ErrPathEscapes  = errors.New("path escapes export directory")
	ErrAbsolutePath = errors.New("absolute paths are not allowed")
	ErrEmptyPath    = errors.New("empty path not allowed")
	ErrFileExists   = errors.New("file already exists")
)

// ExportDir confines files written out of the vault to one directory,
// using the os.Root API so that symlinks and .. cannot escape it.
type ExportDir struct {
	root *os.Root
	path string
}

// OpenExportDir opens dir as the confinement root
func OpenExportDir(dir string) (*ExportDir, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open export directory: %w", err)
	}

	return &ExportDir{root: root, path: absPath}, nil
}

// Close releases the root handle
func (d *ExportDir) Close() error {
	if d.root != nil {
		return d.root.Close()
	}
	return nil
}

// Path returns the absolute path of the export directory
func (d *ExportDir) Path() string {
	return d.path
}

// Normalize validates a user-provided relative path and returns it cleaned.
// It rejects empty, absolute and escaping paths as well as reserved names.
func Normalize(userPath string) (string, error) {
	if userPath == "" {
		return "", ErrEmptyPath
	}

	if !filepath.IsLocal(userPath) {
		if filepath.IsAbs(userPath) {
			return "", fmt.Errorf("%w: %s", ErrAbsolutePath, userPath)
		}
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
	}

	return filepath.Clean(userPath), nil
}

// WriteFile writes data to name inside the export directory, creating parent
// directories. An existing file is only replaced when overwrite is set.
func (d *ExportDir) WriteFile(name string, data []byte, overwrite bool) (string, error) {
	clean, err := Normalize(name)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if dir := filepath.Dir(clean); dir != "." {
		if err := d.root.MkdirAll(dir, 0700); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := d.root.OpenFile(clean, flags, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrFileExists, clean)
		}
		return "", fmt.Errorf("failed to create %s: %w", clean, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", clean, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", clean, err)
	}

	return filepath.Join(d.path, clean), nil
}
