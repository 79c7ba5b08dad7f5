// Package binaries locates prebuilt products in the shared binaries storage.
package binaries

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BinariesStorage = (*Storage)(nil)

// Storage lays binaries out as <root>/<target>/<configuration>-<sdk>/<fingerprint>.
type Storage struct {
	root          string
	configuration string
	sdk           string
}

// NewStorage creates a Storage for the given build configuration and sdk.
func NewStorage(root, configuration, sdk string) *Storage {
	return &Storage{
		root:          filepath.Clean(root),
		configuration: configuration,
		sdk:           sdk,
	}
}

// ArtifactPath returns the directory holding the binary of target built with fingerprint.
func (s *Storage) ArtifactPath(target *domain.Target, fingerprint string) string {
	return filepath.Join(s.root, target.Name, s.configuration+"-"+s.sdk, fingerprint)
}

// ProductPath returns the product file inside the artifact directory.
func (s *Storage) ProductPath(target *domain.Target, fingerprint string) string {
	dir := s.ArtifactPath(target, fingerprint)
	if target.Product == nil {
		return dir
	}
	return filepath.Join(dir, target.Product.FileName())
}

// Exists reports whether a non-empty artifact directory is stored.
func (s *Storage) Exists(target *domain.Target, fingerprint string) (bool, error) {
	entries, err := os.ReadDir(s.ArtifactPath(target, fingerprint))
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to read binaries directory"), "target", target.Name)
	}
	return len(entries) > 0, nil
}
