package domain

import "path/filepath"

const (
	// RugbyDirName is the name of the internal workspace directory.
	RugbyDirName = ".rugby"

	// HashesDirName is the name of the fingerprint store directory.
	HashesDirName = "hashes"

	// BackupDirName is the name of the backup directory.
	BackupDirName = "backup"

	// BinDirName is the name of the shared binaries directory.
	BinDirName = "bin"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.yaml"

	// ProjectFileExt is the extension of project files.
	ProjectFileExt = ".rugbyproj"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultRugbyPath returns the default root directory for rugby metadata.
func DefaultRugbyPath() string {
	return RugbyDirName
}

// DefaultHashesPath returns the default path for the fingerprint store.
// It joins .rugby and hashes.
func DefaultHashesPath() string {
	return filepath.Join(RugbyDirName, HashesDirName)
}

// DefaultBackupPath returns the default path for backup snapshots.
// It joins .rugby and backup.
func DefaultBackupPath() string {
	return filepath.Join(RugbyDirName, BackupDirName)
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(RugbyDirName, ConfigFileName)
}

// DefaultBinariesPath returns the shared binaries directory under home.
func DefaultBinariesPath(home string) string {
	return filepath.Join(home, RugbyDirName, BinDirName)
}
