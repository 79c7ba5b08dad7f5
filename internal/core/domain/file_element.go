package domain

import (
	"path/filepath"
	"strings"
)

// FileKind distinguishes groups from file references.
type FileKind string

// File element kinds.
const (
	FileKindGroup  FileKind = "group"
	FileKindFile   FileKind = "file"
	FileKindFolder FileKind = "folder"
)

// FileElement is a node in a project's file tree.
// Paths of children are relative to their parent group.
type FileElement struct {
	ID       InternedString
	Name     string
	Path     string
	Kind     FileKind
	Children []*FileElement

	parent *FileElement
}

// DisplayName returns Name, falling back to the last path component.
func (e *FileElement) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return filepath.Base(e.Path)
}

// Parent returns the enclosing group, or nil for the main group.
func (e *FileElement) Parent() *FileElement {
	return e.parent
}

// IsGroup reports whether the element can hold children.
func (e *FileElement) IsGroup() bool {
	return e.Kind == FileKindGroup
}

// FullPath resolves the element's location against dir by walking up the group chain.
func (e *FileElement) FullPath(dir string) string {
	var parts []string
	for cur := e; cur != nil; cur = cur.parent {
		if cur.Path == "" {
			continue
		}
		parts = append(parts, cur.Path)
		if filepath.IsAbs(cur.Path) {
			dir = ""
			break
		}
	}
	full := dir
	for i := len(parts) - 1; i >= 0; i-- {
		full = filepath.Join(full, parts[i])
	}
	return full
}

// Child returns the direct child with the given display name.
func (e *FileElement) Child(name string) *FileElement {
	for _, c := range e.Children {
		if c.DisplayName() == name {
			return c
		}
	}
	return nil
}

func (e *FileElement) removeChild(child *FileElement) {
	for i, c := range e.Children {
		if c == child {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// groupsKeptWithoutSources are helper groups that do not keep a parent group alive.
var groupsKeptWithoutSources = map[string]struct{}{
	"Support Files": {},
	"Pod":           {},
}

// hasRequiredChildren reports whether any child is more than generated scaffolding.
func (e *FileElement) hasRequiredChildren() bool {
	for _, c := range e.Children {
		name := c.DisplayName()
		if _, ok := groupsKeptWithoutSources[name]; ok {
			continue
		}
		if strings.HasPrefix(name, "AppHost") {
			continue
		}
		return true
	}
	return false
}
