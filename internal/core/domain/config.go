package domain

import "runtime"

// Config holds user settings loaded from .rugby/config.yaml.
type Config struct {
	// BinariesPath is the root of the shared binaries storage.
	BinariesPath string
	// Configuration is the build configuration binaries are produced with.
	Configuration string
	// SDK is the platform binaries are produced for.
	SDK string
	// Parallelism bounds concurrent hashing work.
	Parallelism int
	// KeepHashYamls stores the full target context next to fingerprints.
	KeepHashYamls bool
	// PrintMissingBinaries lists selected targets without a usable binary.
	PrintMissingBinaries bool
	LogJSON              bool
	Verbose              bool
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig(home string) *Config {
	return &Config{
		BinariesPath:  DefaultBinariesPath(home),
		Configuration: "Debug",
		SDK:           "sim",
		Parallelism:   runtime.NumCPU(),
	}
}
