package surgery

import (
	"slices"

	"go.trai.ch/rugby/internal/core/domain"
)

// ChangeSet describes an in-memory substitution that has not been written yet.
type ChangeSet struct {
	// Substituted are the targets removed in favor of their binaries.
	Substituted []*domain.Target
	// Replacements are the support file edits to apply.
	Replacements []domain.FileReplacement
	// Projects are the project files with unsaved changes.
	Projects []string
}

// Files returns every file a commit of the change set writes, sorted.
func (c *ChangeSet) Files() []string {
	files := make([]string, 0, len(c.Replacements)+len(c.Projects))
	for _, r := range c.Replacements {
		files = append(files, r.Path)
	}
	files = append(files, c.Projects...)
	slices.Sort(files)
	return slices.Compact(files)
}
