package ports

import "go.trai.ch/rugby/internal/core/domain"

// BinariesStorage locates prebuilt products.
//
//go:generate mockgen -source=binaries.go -destination=mocks/mock_binaries.go -package=mocks
type BinariesStorage interface {
	// ArtifactPath returns the directory holding the binary of target built with fingerprint.
	ArtifactPath(target *domain.Target, fingerprint string) string
	// ProductPath returns the product file inside ArtifactPath.
	ProductPath(target *domain.Target, fingerprint string) string
	// Exists reports whether a binary is stored for target and fingerprint.
	Exists(target *domain.Target, fingerprint string) (bool, error)
}
