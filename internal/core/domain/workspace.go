package domain

import (
	"cmp"
	"regexp"
	"slices"

	"go.trai.ch/zerr"
)

// Workspace is a root project together with every project it references.
type Workspace struct {
	Root     *Project
	Projects []*Project

	targets map[InternedString]*Target
	order   []InternedString
}

// NewWorkspace creates a workspace. The root project is always the first project.
func NewWorkspace(root *Project, others ...*Project) *Workspace {
	projects := []*Project{root}
	for _, p := range others {
		if p != root {
			projects = append(projects, p)
		}
	}
	return &Workspace{Root: root, Projects: projects}
}

// Resolve indexes targets, validates dependency edges and derives the
// transitive dependency closure of every target.
func (w *Workspace) Resolve() error {
	w.targets = make(map[InternedString]*Target)
	for _, p := range w.Projects {
		for _, t := range p.Targets {
			if _, exists := w.targets[t.ID]; exists {
				return zerr.With(ErrDuplicateTarget, "target_id", t.ID.String())
			}
			t.Project = p
			w.targets[t.ID] = t
		}
	}

	if err := w.sort(); err != nil {
		return err
	}

	for _, id := range w.order {
		t := w.targets[id]
		deps := make(map[InternedString]*Target)
		for _, depID := range t.ExplicitDependencies {
			dep := w.targets[depID]
			deps[depID] = dep
			for transitiveID, transitive := range dep.Dependencies {
				deps[transitiveID] = transitive
			}
		}
		t.Dependencies = deps
	}
	return nil
}

// sort computes a dependency-first order, visiting targets by name for stability.
func (w *Workspace) sort() error {
	w.order = make([]InternedString, 0, len(w.targets))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		for _, dep := range w.targets[u].ExplicitDependencies {
			if _, exists := w.targets[dep]; !exists {
				err := zerr.With(ErrMissingDependency, "dependency", dep.String())
				return zerr.With(err, "target", w.targets[u].Name)
			}
			if visited[dep] == 1 {
				return w.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		w.order = append(w.order, u)
		return nil
	}

	for _, t := range w.Targets() {
		if visited[t.ID] == 0 {
			if err := visit(t.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (w *Workspace) buildCycleError(path []InternedString, dep InternedString) error {
	cyclePath := ""
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += w.targets[path[i]].Name + " -> "
	}
	cyclePath += w.targets[dep].Name
	return zerr.With(ErrCycleDetected, "cycle", cyclePath)
}

// Targets returns every target of the workspace sorted by name.
func (w *Workspace) Targets() []*Target {
	out := make([]*Target, 0, len(w.targets))
	for _, t := range w.targets {
		out = append(out, t)
	}
	sortTargets(out)
	return out
}

// Target looks up a target by id.
func (w *Workspace) Target(id InternedString) (*Target, bool) {
	t, ok := w.targets[id]
	return t, ok
}

// TargetNamed looks up a target by name.
func (w *Workspace) TargetNamed(name string) (*Target, bool) {
	for _, t := range w.targets {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// FindTargets returns targets whose names match include and do not match
// exclude. A nil pattern is ignored.
func (w *Workspace) FindTargets(include, exclude *regexp.Regexp) []*Target {
	var out []*Target
	for _, t := range w.Targets() {
		if include != nil && !include.MatchString(t.Name) {
			continue
		}
		if exclude != nil && exclude.MatchString(t.Name) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TopologicalOrder returns targets together with their transitive
// dependencies, ordered so that every dependency precedes its dependents.
func (w *Workspace) TopologicalOrder(targets []*Target) []*Target {
	wanted := make(map[InternedString]struct{})
	for _, t := range targets {
		wanted[t.ID] = struct{}{}
		for id := range t.Dependencies {
			wanted[id] = struct{}{}
		}
	}
	out := make([]*Target, 0, len(wanted))
	for _, id := range w.order {
		if _, ok := wanted[id]; ok {
			out = append(out, w.targets[id])
		}
	}
	return out
}

// AddDependency adds dep as an explicit dependency of target. A reference to
// dep's project is added when the two live in different projects.
func (w *Workspace) AddDependency(target, dep *Target) {
	if target.HasExplicitDependency(dep.ID) {
		return
	}
	target.ExplicitDependencies = append(target.ExplicitDependencies, dep.ID)
	if dep.Project != target.Project {
		target.Project.AddProjectReference(dep.Project)
	}
	target.Project.MarkDirty()
}

// DeleteDependencies removes the given explicit dependencies from target.
func (w *Workspace) DeleteDependencies(target *Target, ids map[InternedString]struct{}) {
	before := len(target.ExplicitDependencies)
	target.ExplicitDependencies = slices.DeleteFunc(target.ExplicitDependencies, func(id InternedString) bool {
		_, ok := ids[id]
		return ok
	})
	if len(target.ExplicitDependencies) != before {
		target.Project.MarkDirty()
	}
}

// RemoveTarget deletes a target from its project and from the workspace index.
// Schemes of every project stop referring to it.
func (w *Workspace) RemoveTarget(t *Target) {
	t.Project.RemoveTarget(t.ID)
	for _, p := range w.Projects {
		if p != t.Project {
			p.RemoveSchemeEntries(t.ID)
		}
	}
	delete(w.targets, t.ID)
	w.order = slices.DeleteFunc(w.order, func(id InternedString) bool { return id == t.ID })
}

func sortTargets(targets []*Target) {
	slices.SortFunc(targets, func(a, b *Target) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}

// SortedTargets returns a copy of targets sorted by name.
func SortedTargets(targets []*Target) []*Target {
	out := slices.Clone(targets)
	sortTargets(out)
	return out
}

// DirtyProjects returns the projects with unsaved changes.
func (w *Workspace) DirtyProjects() []*Project {
	var out []*Project
	for _, p := range w.Projects {
		if p.Dirty() {
			out = append(out, p)
		}
	}
	return out
}
