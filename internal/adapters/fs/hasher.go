package fs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileHasher = (*Hasher)(nil)

// missingMarker replaces the hash of files that do not exist.
const missingMarker = "missing"

// Hasher hashes file contents for target fingerprints.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// HashContext describes paths as sorted "path: hash" entries with paths made
// relative to root where possible. Directories are hashed as a whole.
func (h *Hasher) HashContext(root string, paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}

		entry, err := h.describe(path)
		if err != nil {
			return nil, err
		}
		out = append(out, relativePath(root, path)+": "+entry)
	}
	slices.Sort(out)
	return out, nil
}

func (h *Hasher) describe(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return missingMarker, nil
		}
		return "", zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}

	if !info.IsDir() {
		sum, err := h.ComputeFileHash(path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%016x", sum), nil
	}

	digest := xxhash.New()
	for filePath := range h.walker.WalkFiles(path, nil) {
		sum, err := h.ComputeFileHash(filePath)
		if err != nil {
			return "", err
		}
		_, _ = digest.WriteString(relativePath(path, filePath))
		_, _ = digest.Write([]byte{0})
		if err := binary.Write(digest, binary.LittleEndian, sum); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}
	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

// relativePath returns path relative to root, or path itself when it lies outside root.
func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
