// Package fs writes downloaded resources to the local filesystem
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrOutsideRoot = errors.New("path escapes destination root")
	ErrInvalidName = errors.New("invalid file name")
)

// FS is the subset of filesystem operations the bundle downloader needs
type FS interface {
	// MkdirAll creates path and any missing parents. An existing directory
	// is not an error.
	MkdirAll(path string) error

	// WriteFile creates or truncates path and writes data to it
	WriteFile(path string, data []byte) error
}

// OSFS implements [FS] on the host filesystem
type OSFS struct {
	DirPerm  os.FileMode
	FilePerm os.FileMode
}

// NewOSFS creates an [OSFS]; zero perms fall back to 0755 / 0644
func NewOSFS(dirPerm, filePerm os.FileMode) *OSFS {
	if dirPerm == 0 {
		dirPerm = 0o755
	}
	if filePerm == 0 {
		filePerm = 0o644
	}
	return &OSFS{DirPerm: dirPerm, FilePerm: filePerm}
}

func (o *OSFS) MkdirAll(path string) error {
	if err := os.MkdirAll(path, o.DirPerm); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

func (o *OSFS) WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, o.FilePerm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

var _ FS = (*OSFS)(nil)

// ValidateName checks that name is a single path segment
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// SafeJoin joins root with the "/" separated rel path and the file name and
// ensures the result stays inside root
func SafeJoin(root, rel string, name ...string) (string, error) {
	parts := append([]string{root, filepath.FromSlash(rel)}, name...)
	p := filepath.Clean(filepath.Join(parts...))
	cleanRoot := filepath.Clean(root)

	r, err := filepath.Rel(cleanRoot, p)
	if err != nil {
		return "", err
	}
	r = filepath.ToSlash(r)
	if r == ".." || strings.HasPrefix(r, "../") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, p)
	}
	return p, nil
}
