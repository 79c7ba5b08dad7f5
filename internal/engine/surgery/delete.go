package surgery

import (
	"go.trai.ch/rugby/internal/core/domain"
)

// deleteTargets removes targets from the workspace. Survivors that depended on
// a removed target inherit its remaining dependencies as explicit edges.
func deleteTargets(ws *domain.Workspace, removed []*domain.Target, keepGroups bool) {
	if len(removed) == 0 {
		return
	}
	set := toSet(removed)

	var survivors []*domain.Target
	for _, t := range ws.Targets() {
		if _, ok := set[t.ID]; !ok {
			survivors = append(survivors, t)
		}
	}

	for _, t := range survivors {
		dropped := make(map[domain.InternedString]struct{})
		for _, id := range t.ExplicitDependencies {
			if _, ok := set[id]; ok {
				dropped[id] = struct{}{}
			}
		}
		if len(dropped) == 0 {
			continue
		}

		for _, r := range removed {
			if _, ok := dropped[r.ID]; !ok {
				continue
			}
			for _, dep := range sortedDependencies(r) {
				if _, gone := set[dep.ID]; gone {
					continue
				}
				ws.AddDependency(t, dep)
			}
		}
		ws.DeleteDependencies(t, dropped)
	}

	if !keepGroups {
		deleteTargetFiles(removed, survivors)
	}

	for _, r := range removed {
		ws.RemoveTarget(r)
	}
}

// deleteTargetFiles removes the file elements of removed targets that no
// survivor of the same project still uses.
func deleteTargetFiles(removed, survivors []*domain.Target) {
	used := make(map[*domain.FileElement]struct{})
	for _, t := range survivors {
		for _, id := range t.FileIDs() {
			if e, ok := t.Project.Element(id); ok {
				used[e] = struct{}{}
			}
		}
	}

	for _, r := range removed {
		for _, id := range r.FileIDs() {
			e, ok := r.Project.Element(id)
			if !ok {
				continue
			}
			if _, keep := used[e]; keep {
				continue
			}
			r.Project.DeleteElement(e)
		}
	}
}

func sortedDependencies(t *domain.Target) []*domain.Target {
	deps := make([]*domain.Target, 0, len(t.Dependencies))
	for _, dep := range t.Dependencies {
		deps = append(deps, dep)
	}
	return domain.SortedTargets(deps)
}
