// Package app implements the application layer for rugby.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/rugby/internal/engine/hashing"
	"go.trai.ch/rugby/internal/engine/surgery"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	projects ports.ProjectStore
	backups  ports.BackupManager
	hasher   *hashing.TargetsHasher
	cache    *hashing.Cache
	surgery  *surgery.Engine
	states   *domain.TargetStates
	logger   ports.Logger
	tracer   ports.Tracer
	config   *domain.Config
}

// New creates a new App instance.
func New(
	projects ports.ProjectStore,
	backups ports.BackupManager,
	hasher *hashing.TargetsHasher,
	cache *hashing.Cache,
	engine *surgery.Engine,
	states *domain.TargetStates,
	log ports.Logger,
	tracer ports.Tracer,
	cfg *domain.Config,
) *App {
	return &App{
		projects: projects,
		backups:  backups,
		hasher:   hasher,
		cache:    cache,
		surgery:  engine,
		states:   states,
		logger:   log,
		tracer:   tracer,
		config:   cfg,
	}
}

// SelectOptions chooses the project and the targets to work on.
type SelectOptions struct {
	// Project is the path of the root project file.
	Project string
	// Include selects targets by name. Empty selects every buildable target.
	Include string
	// Exclude removes targets by name, dependencies included.
	Exclude string
}

// UseOptions configuration for the Use method.
type UseOptions struct {
	SelectOptions
	// BuildOptions are the extra build tool arguments binaries were built with.
	BuildOptions []string
	// KeepSourceGroups keeps the file groups of substituted targets.
	KeepSourceGroups bool
}

// HashOptions configuration for the Hash method.
type HashOptions struct {
	SelectOptions
	BuildOptions []string
}

// Use replaces every selected target with a cached binary when one exists.
//
//nolint:cyclop // orchestration function
func (a *App) Use(ctx context.Context, opts UseOptions) error {
	ws, targets, err := a.load(ctx, opts.SelectOptions)
	if err != nil {
		return err
	}
	if ws.Root.IsPatched() {
		return domain.ErrAlreadyPatched
	}

	if err := a.hash(ctx, targets, opts.BuildOptions); err != nil {
		return err
	}

	eligible, missing, err := a.cache.Eligible(ctx, targets)
	if err != nil {
		return zerr.Wrap(err, "failed to check binaries")
	}
	if len(missing) > 0 && a.config.PrintMissingBinaries {
		a.logger.Warn(fmt.Sprintf("missing binaries (%d): %s", len(missing), joinNames(missing)))
	}
	if err := a.cache.Persist(ctx, targets); err != nil {
		return zerr.Wrap(err, "failed to store fingerprints")
	}
	if len(eligible) == 0 {
		a.logger.Warn("no binaries found for the selected targets")
		return nil
	}

	cs, err := a.surgery.Substitute(ctx, ws, eligible, opts.KeepSourceGroups)
	if err != nil {
		return err
	}

	if err := a.backup(ctx, cs.Files()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// A commit runs to completion once it has started.
	commitCtx := context.WithoutCancel(ctx)
	if err := a.surgery.Commit(commitCtx, ws, cs); err != nil {
		if _, restoreErr := a.backups.Restore(commitCtx, domain.BackupLastRun); restoreErr != nil {
			return errors.Join(err, restoreErr)
		}
		return err
	}

	a.logger.Info(fmt.Sprintf("using binaries for %d of %d targets", len(cs.Substituted), len(targets)))
	return nil
}

// Hash computes and stores the fingerprints of the selected targets.
func (a *App) Hash(ctx context.Context, opts HashOptions) error {
	_, targets, err := a.load(ctx, opts.SelectOptions)
	if err != nil {
		return err
	}
	if err := a.hash(ctx, targets, opts.BuildOptions); err != nil {
		return err
	}
	if err := a.cache.Persist(ctx, targets); err != nil {
		return zerr.Wrap(err, "failed to store fingerprints")
	}

	for _, t := range domain.SortedTargets(targets) {
		fp, _ := a.states.Fingerprint(t.ID)
		a.logger.Info(t.Name + ": " + fp)
	}
	return nil
}

// Rollback restores the project files saved before binaries were first used.
func (a *App) Rollback(ctx context.Context) error {
	report, err := a.backups.Rollback(ctx)
	if report != nil {
		for _, path := range domain.SortedKeys(report.Failed) {
			a.logger.Warn("failed to restore " + path)
		}
		if len(report.Restored) > 0 {
			a.logger.Info(fmt.Sprintf("restored %d files from the %s backup", len(report.Restored), report.Kind))
		}
	}
	return err
}

func (a *App) load(ctx context.Context, opts SelectOptions) (*domain.Workspace, []*domain.Target, error) {
	include, exclude, err := compileSelection(opts)
	if err != nil {
		return nil, nil, err
	}

	path, err := projectPath(opts.Project)
	if err != nil {
		return nil, nil, err
	}
	ws, err := a.projects.Load(path)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load project")
	}

	_, span := a.tracer.Start(ctx, "Finding Build Targets")
	targets := selectTargets(ws, include, exclude)
	span.SetAttribute("targets", len(targets))
	span.End()
	return ws, targets, nil
}

func (a *App) hash(ctx context.Context, targets []*domain.Target, buildOptions []string) error {
	ctx, span := a.tracer.Start(ctx, "Hashing Targets")
	defer span.End()
	if err := a.hasher.Hash(ctx, targets, buildOptions); err != nil {
		span.RecordError(err)
		return zerr.Wrap(err, "failed to hash targets")
	}
	return nil
}

func (a *App) backup(ctx context.Context, files []string) error {
	ctx, span := a.tracer.Start(ctx, "Backuping")
	defer span.End()
	for _, kind := range []domain.BackupKind{domain.BackupOriginal, domain.BackupLastRun} {
		if err := a.backups.Backup(ctx, kind, files); err != nil {
			span.RecordError(err)
			return err
		}
	}
	return nil
}

// projectPath returns path, or the first project file in the working directory when path is empty.
func projectPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	matches, err := filepath.Glob("*" + domain.ProjectFileExt)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrProjectNotFound.Error())
	}
	if len(matches) == 0 {
		return "", domain.ErrProjectNotFound
	}
	slices.Sort(matches)
	return matches[0], nil
}

func compileSelection(opts SelectOptions) (*regexp.Regexp, *regexp.Regexp, error) {
	compile := func(pattern string) (*regexp.Regexp, error) {
		if pattern == "" {
			return nil, nil
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidSelection.Error()), "pattern", pattern)
		}
		return re, nil
	}

	include, err := compile(opts.Include)
	if err != nil {
		return nil, nil, err
	}
	exclude, err := compile(opts.Exclude)
	if err != nil {
		return nil, nil, err
	}
	return include, exclude, nil
}

// selectTargets returns the buildable targets matching include together with
// their buildable dependencies. Targets matching exclude are never selected.
func selectTargets(ws *domain.Workspace, include, exclude *regexp.Regexp) []*domain.Target {
	var roots []*domain.Target
	for _, t := range ws.FindTargets(include, exclude) {
		if t.IsBuildable() {
			roots = append(roots, t)
		}
	}

	var out []*domain.Target
	for _, t := range ws.TopologicalOrder(roots) {
		if !t.IsBuildable() {
			continue
		}
		if exclude != nil && exclude.MatchString(t.Name) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func joinNames(targets []*domain.Target) string {
	names := make([]string, 0, len(targets))
	for _, t := range domain.SortedTargets(targets) {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}
