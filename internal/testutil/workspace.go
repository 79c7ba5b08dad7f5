// Package testutil builds on-disk workspaces for tests.
package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/rugby/internal/core/domain"
)

// Builder assembles a workspace whose sources exist in a temporary directory.
// The first project created is the root project.
type Builder struct {
	t        testing.TB
	dir      string
	projects []*domain.Project
	targets  map[string]*domain.Target
}

// NewBuilder creates a builder rooted at a fresh temporary directory.
func NewBuilder(t testing.TB) *Builder {
	t.Helper()
	return &Builder{t: t, dir: t.TempDir(), targets: make(map[string]*domain.Target)}
}

// Dir returns the workspace directory.
func (b *Builder) Dir() string {
	return b.dir
}

// Project returns the project with the given name, creating it when missing.
// The root project lives in Dir, every other project in its own subdirectory.
func (b *Builder) Project(name string) *domain.Project {
	for _, p := range b.projects {
		if p.Name == name {
			return p
		}
	}

	path := filepath.Join(b.dir, name+domain.ProjectFileExt)
	if len(b.projects) > 0 {
		path = filepath.Join(b.dir, name, name+domain.ProjectFileExt)
	}
	p := domain.NewProject(path, name)
	p.Configurations = map[string]domain.BuildSettings{"Debug": {}, "Release": {}}
	if len(b.projects) > 0 {
		b.projects[0].AddProjectReference(p)
	}
	b.projects = append(b.projects, p)
	return p
}

// Target adds a target with one source file to project. An empty product
// type creates a target without a product.
func (b *Builder) Target(project, name string, productType domain.ProductType, deps ...string) *domain.Target {
	b.t.Helper()
	p := b.Project(project)

	group := &domain.FileElement{
		ID:   domain.NewInternedString("G-" + name),
		Name: name,
		Path: name,
		Kind: domain.FileKindGroup,
	}
	p.AddElement(p.MainGroup, group)
	source := &domain.FileElement{
		ID:   domain.NewInternedString("F-" + name),
		Path: name + ".swift",
		Kind: domain.FileKindFile,
	}
	p.AddElement(group, source)
	WriteFile(b.t, filepath.Join(p.Dir(), name, name+".swift"), "// "+name+"\n")

	t := &domain.Target{
		ID:   domain.NewInternedString("T-" + name),
		Name: name,
		Configurations: map[string]domain.BuildSettings{
			"Debug":   {},
			"Release": {},
		},
		BuildPhases: []*domain.BuildPhase{{
			Name:  "Sources",
			Type:  domain.BuildPhaseSources,
			Files: []domain.InternedString{source.ID},
		}},
	}
	if productType != "" {
		t.Product = &domain.Product{Name: name, Type: productType}
	}
	for _, dep := range deps {
		t.ExplicitDependencies = append(t.ExplicitDependencies, domain.NewInternedString("T-"+dep))
	}
	p.AddTarget(t)
	b.targets[name] = t
	return t
}

// ResourceBundle adds a resources phase to target that copies bundle.bundle.
func (b *Builder) ResourceBundle(target, bundle string) {
	b.t.Helper()
	t := b.mustTarget(target)
	p := t.Project

	group := p.Group("Resources")
	element := &domain.FileElement{
		ID:   domain.NewInternedString("F-" + target + "-" + bundle + ".bundle"),
		Path: bundle + ".bundle",
		Kind: domain.FileKindFile,
	}
	p.AddElement(group, element)
	t.BuildPhases = append(t.BuildPhases, &domain.BuildPhase{
		Name:  "Resources",
		Type:  domain.BuildPhaseResources,
		Files: []domain.InternedString{element.ID},
	})
}

// SupportFile writes a support file relative to the target's project and
// registers it with the target.
func (b *Builder) SupportFile(target, rel, content string) string {
	b.t.Helper()
	t := b.mustTarget(target)
	path := filepath.Join(t.Project.Dir(), rel)
	WriteFile(b.t, path, content)
	t.SupportFiles = append(t.SupportFiles, rel)
	return path
}

// Scheme adds a scheme listing the named targets to project.
func (b *Builder) Scheme(project, name string, targets ...string) {
	p := b.Project(project)
	s := domain.Scheme{Name: name}
	for _, t := range targets {
		s.Targets = append(s.Targets, domain.NewInternedString("T-"+t))
	}
	p.Schemes = append(p.Schemes, s)
}

// Build resolves the workspace. Projects start out clean.
func (b *Builder) Build() *domain.Workspace {
	b.t.Helper()
	require.NotEmpty(b.t, b.projects, "workspace needs at least one project")

	ws := domain.NewWorkspace(b.projects[0], b.projects[1:]...)
	require.NoError(b.t, ws.Resolve())
	for _, p := range ws.Projects {
		p.ClearDirty()
	}
	return ws
}

// Targets returns the named targets in argument order.
func (b *Builder) Targets(names ...string) []*domain.Target {
	b.t.Helper()
	out := make([]*domain.Target, 0, len(names))
	for _, name := range names {
		out = append(out, b.mustTarget(name))
	}
	return out
}

func (b *Builder) mustTarget(name string) *domain.Target {
	b.t.Helper()
	t, ok := b.targets[name]
	require.True(b.t, ok, "unknown target %s", name)
	return t
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

// Names returns the names of targets sorted.
func Names(targets []*domain.Target) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.Name)
	}
	slices.Sort(out)
	return out
}
