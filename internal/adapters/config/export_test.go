package config

import "go.trai.ch/rugby/internal/core/ports"

// NewLoaderWithHome overrides home directory lookup for tests.
func NewLoaderWithHome(logger ports.Logger, home string) *Loader {
	l := NewLoader(logger)
	l.home = func() (string, error) { return home, nil }
	return l
}
