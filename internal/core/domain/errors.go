package domain

import "go.trai.ch/zerr"

var (
	// ErrMissingDependency is returned when a target references a dependency that doesn't exist in the workspace.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the target dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTargetNotFound is returned when a requested target is not found in the workspace.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrDuplicateTarget is returned when two targets in a workspace share an identifier.
	ErrDuplicateTarget = zerr.New("duplicate target")

	// ErrAlreadyPatched is returned when binaries are already in use for the workspace.
	ErrAlreadyPatched = zerr.New("binaries are already in use, run rollback first")

	// ErrUnresolvedFileReference is returned when a build phase references an unknown file element.
	ErrUnresolvedFileReference = zerr.New("unresolved file reference")

	// ErrMissingProduct is returned when a binary target has no product to link against.
	ErrMissingProduct = zerr.New("target has no product")

	// ErrMissingFingerprint is returned when a target is used before it has been hashed.
	ErrMissingFingerprint = zerr.New("target has no fingerprint")

	// ErrMissingSupportFile is returned when a support file scheduled for patching does not exist.
	ErrMissingSupportFile = zerr.New("support file not found")

	// ErrInvalidSelection is returned when a target selection pattern cannot be compiled.
	ErrInvalidSelection = zerr.New("invalid target selection")

	// ErrProjectNotFound is returned when no project file is given and none exists in the working directory.
	ErrProjectNotFound = zerr.New("no project file found")

	// ErrProjectRead is returned when a project file cannot be read.
	ErrProjectRead = zerr.New("failed to read project file")

	// ErrProjectParse is returned when a project file cannot be parsed.
	ErrProjectParse = zerr.New("failed to parse project file")

	// ErrProjectWrite is returned when a project file cannot be written.
	ErrProjectWrite = zerr.New("failed to write project file")

	// ErrStoreReadFailed is returned when reading a fingerprint record fails.
	ErrStoreReadFailed = zerr.New("failed to read fingerprint record")

	// ErrStoreUnmarshalFailed is returned when decoding a fingerprint record fails.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal fingerprint record")

	// ErrStoreMarshalFailed is returned when encoding a fingerprint record fails.
	ErrStoreMarshalFailed = zerr.New("failed to marshal fingerprint record")

	// ErrStoreWriteFailed is returned when writing a fingerprint record fails.
	ErrStoreWriteFailed = zerr.New("failed to write fingerprint record")

	// ErrStoreCreateFailed is returned when the fingerprint store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create fingerprint store directory")

	// ErrBackupFailed is returned when a backup snapshot cannot be written.
	ErrBackupFailed = zerr.New("failed to back up files")

	// ErrNoBackup is returned when rollback is requested but no snapshot exists.
	ErrNoBackup = zerr.New("no backup found")

	// ErrPartialRollback is returned when some files could not be restored.
	ErrPartialRollback = zerr.New("rollback restored only part of the files")

	// ErrConfigRead is returned when the configuration file cannot be read.
	ErrConfigRead = zerr.New("failed to read config")

	// ErrConfigParse is returned when the configuration file cannot be parsed.
	ErrConfigParse = zerr.New("failed to parse config")
)
