package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileEditor = (*Editor)(nil)

// Editor rewrites text files in place.
type Editor struct{}

// NewEditor creates a new Editor.
func NewEditor() *Editor {
	return &Editor{}
}

// Replace applies r to the file at r.Path.
// The file is replaced atomically and keeps its permissions.
func (e *Editor) Replace(r domain.FileReplacement) error {
	info, err := os.Stat(r.Path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return zerr.With(domain.ErrMissingSupportFile, "path", r.Path)
		}
		return zerr.With(zerr.Wrap(err, "failed to stat file"), "path", r.Path)
	}

	content, err := os.ReadFile(r.Path) //nolint:gosec // Path comes from the project model
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read file"), "path", r.Path)
	}

	replaced := r.Apply(string(content))
	if replaced == string(content) {
		return nil
	}

	return WriteFileAtomic(r.Path, []byte(replaced), info.Mode().Perm())
}

// WriteFileAtomic writes data to a temporary file next to path and renames it into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temp file"), "path", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to write temp file"), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close temp file"), "path", path)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to set permissions"), "path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace file"), "path", path)
	}
	return nil
}
