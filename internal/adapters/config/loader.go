// Package config loads user settings for rugby.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	logger ports.Logger
	home   func() (string, error)
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger, home: os.UserHomeDir}
}

// Load reads .rugby/config.yaml under cwd. Missing files yield defaults.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	home, err := l.home()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve home directory")
	}
	cfg := domain.DefaultConfig(home)

	path := filepath.Join(cwd, domain.DefaultConfigPath())
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the working directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("no config file found, using defaults")
			return cfg, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigRead.Error()), "path", path)
	}

	var file ConfigFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParse.Error()), "path", path)
	}

	apply(cfg, &file, home)
	return cfg, nil
}

func apply(cfg *domain.Config, file *ConfigFile, home string) {
	if file.BinariesPath != "" {
		cfg.BinariesPath = expandHome(file.BinariesPath, home)
	}
	if file.Configuration != "" {
		cfg.Configuration = file.Configuration
	}
	if file.SDK != "" {
		cfg.SDK = file.SDK
	}
	if file.Parallelism > 0 {
		cfg.Parallelism = file.Parallelism
	}
	if file.KeepHashYamls != nil {
		cfg.KeepHashYamls = *file.KeepHashYamls
	}
	if file.PrintMissingBinaries != nil {
		cfg.PrintMissingBinaries = *file.PrintMissingBinaries
	}
	if file.LogJSON != nil {
		cfg.LogJSON = *file.LogJSON
	}
	if file.Verbose != nil {
		cfg.Verbose = *file.Verbose
	}
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
