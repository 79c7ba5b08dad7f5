package hashing

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/rugby/internal/parallel"
	"go.trai.ch/zerr"
)

// simulatorPlatformName is forced so that device and simulator settings hash alike.
const simulatorPlatformName = "-iphonesimulator"

// BuildPhaseHasher describes the build phases of a target for fingerprinting.
type BuildPhaseHasher struct {
	hasher      ports.FileHasher
	logger      ports.Logger
	parallelism int
}

// NewBuildPhaseHasher creates a new BuildPhaseHasher.
func NewBuildPhaseHasher(hasher ports.FileHasher, logger ports.Logger, parallelism int) *BuildPhaseHasher {
	return &BuildPhaseHasher{hasher: hasher, logger: logger, parallelism: parallelism}
}

// SelectConfiguration returns the alphabetically first configuration of the
// target, falling back to the project's configurations.
func SelectConfiguration(target *domain.Target) string {
	if names := domain.SortedKeys(target.Configurations); len(names) > 0 {
		return names[0]
	}
	if target.Project != nil {
		if names := domain.SortedKeys(target.Project.Configurations); len(names) > 0 {
			return names[0]
		}
	}
	return ""
}

// Settings returns the effective build settings of target for its selected
// configuration: built-ins, then project settings, then target settings.
func Settings(target *domain.Target) domain.BuildSettings {
	configuration := SelectConfiguration(target)
	settings := domain.BuildSettings{
		"TARGET_NAME":   target.Name,
		"PRODUCT_NAME":  target.Name,
		"CONFIGURATION": configuration,
	}
	if target.Product != nil {
		settings["PRODUCT_NAME"] = target.Product.Name
	}
	if p := target.Project; p != nil {
		dir := p.Dir()
		settings["SRCROOT"] = dir
		settings["PROJECT_DIR"] = dir
		settings["PODS_ROOT"] = dir
		for k, v := range p.Configurations[configuration] {
			settings[k] = v
		}
	}
	for k, v := range target.Configurations[configuration] {
		settings[k] = v
	}
	settings["EFFECTIVE_PLATFORM_NAME"] = simulatorPlatformName
	return settings
}

// HashContext returns one context per build phase, in declaration order.
func (h *BuildPhaseHasher) HashContext(ctx context.Context, target *domain.Target) ([]domain.PhaseContext, error) {
	resolver := NewResolver(Settings(target))
	return parallel.Map(ctx, h.parallelism, target.BuildPhases, func(_ context.Context, phase *domain.BuildPhase) (domain.PhaseContext, error) {
		return h.phaseContext(target, resolver, phase)
	})
}

func (h *BuildPhaseHasher) phaseContext(target *domain.Target, resolver *Resolver, phase *domain.BuildPhase) (domain.PhaseContext, error) {
	dir := target.Project.Dir()

	files, err := h.filesContext(target, phase.Files)
	if err != nil {
		return domain.PhaseContext{}, zerr.With(zerr.With(err, "target", target.Name), "phase", phase.Name)
	}

	inputs, missing, err := h.inputFileLists(dir, resolver, phase.InputFileListPaths)
	if err != nil {
		return domain.PhaseContext{}, zerr.With(zerr.With(err, "target", target.Name), "phase", phase.Name)
	}
	for _, m := range missing {
		h.logger.Debug(target.Name + ": unresolved input file list entry " + m)
	}

	outputs := make([]string, 0, len(phase.OutputFileListPaths))
	for _, p := range phase.OutputFileListPaths {
		outputs = append(outputs, relativeTo(dir, absolute(dir, resolver.Resolve(p))))
	}
	slices.Sort(outputs)

	return domain.PhaseContext{
		Name:                               phase.Name,
		Type:                               phase.Type,
		BuildActionMask:                    phase.BuildActionMask,
		RunOnlyForDeploymentPostprocessing: phase.RunOnlyForDeploymentPostprocessing,
		InputFileListPaths:                 inputs,
		InputFileListPathsMissing:          missing,
		OutputFileListPaths:                outputs,
		Files:                              files,
	}, nil
}

func (h *BuildPhaseHasher) filesContext(target *domain.Target, ids []domain.InternedString) ([]string, error) {
	paths := make([]string, 0, len(ids))
	for _, id := range ids {
		path, err := target.Project.ElementPath(id)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return h.hasher.HashContext(target.Project.Dir(), paths)
}

// inputFileLists reads every resolvable list file and hashes the files it names.
// Entries that cannot be resolved or do not exist are returned as missing.
func (h *BuildPhaseHasher) inputFileLists(dir string, resolver *Resolver, lists []string) ([]string, []string, error) {
	var paths []string
	missing := []string{}
	for _, list := range lists {
		resolved := resolver.Resolve(list)
		if !IsResolved(resolved) {
			missing = append(missing, relativeTo(dir, resolved))
			continue
		}
		resolved = absolute(dir, resolved)

		data, err := os.ReadFile(resolved) //nolint:gosec // list paths come from the project file
		if errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, relativeTo(dir, resolved))
			continue
		}
		if err != nil {
			return nil, nil, zerr.With(zerr.Wrap(err, "failed to read file list"), "path", resolved)
		}

		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			line = resolver.Resolve(line)
			if !IsResolved(line) {
				missing = append(missing, relativeTo(dir, line))
				continue
			}
			line = absolute(dir, line)
			if _, err := os.Stat(line); err != nil {
				missing = append(missing, relativeTo(dir, line))
				continue
			}
			paths = append(paths, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, nil, zerr.With(zerr.Wrap(err, "failed to read file list"), "path", resolved)
		}
	}

	slices.Sort(missing)
	missing = slices.Compact(missing)
	if len(missing) == 0 {
		missing = nil
	}

	inputs, err := h.hasher.HashContext(dir, paths)
	if err != nil {
		return nil, nil, err
	}
	return inputs, missing, nil
}

func absolute(dir, path string) string {
	if !IsResolved(path) || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// relativeTo strips the dir prefix from path. Paths outside dir are kept as they are.
// Unresolved placeholders are plain text here, so partially resolved paths work too.
func relativeTo(dir, path string) string {
	if path == dir {
		return "."
	}
	if rel, ok := strings.CutPrefix(path, dir+string(filepath.Separator)); ok {
		return rel
	}
	return path
}
