package ports

//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks

// FileHasher hashes files on disk.
type FileHasher interface {
	// ComputeFileHash returns the content hash of the file at path.
	ComputeFileHash(path string) (uint64, error)
	// HashContext returns sorted "relative/path: hash" entries for paths,
	// relative to root. Missing files are reported as "relative/path: missing".
	HashContext(root string, paths []string) ([]string, error)
}
