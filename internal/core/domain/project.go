package domain

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// PatchedSettingKey marks a project whose targets were substituted by binaries.
const PatchedSettingKey = "RUGBY_PATCHED"

// BinariesGroupName is the group holding references to prebuilt products.
const BinariesGroupName = "Rugby Binaries"

// Scheme groups targets for building.
type Scheme struct {
	Name    string
	Targets []InternedString
}

// Project is a single project file with its targets and file tree.
type Project struct {
	// Path is the absolute path of the project file.
	Path string
	Name string

	// Configurations holds project level build settings per configuration.
	Configurations map[string]BuildSettings

	// ProjectReferences are paths of referenced projects, relative to Dir().
	ProjectReferences []string

	MainGroup *FileElement
	Targets   []*Target
	Schemes   []Scheme

	elements map[InternedString]*FileElement
	dirty    bool
}

// NewProject creates an empty project located at path.
func NewProject(path, name string) *Project {
	p := &Project{
		Path:           path,
		Name:           name,
		Configurations: map[string]BuildSettings{},
		MainGroup: &FileElement{
			ID:   NewInternedString(name + "-main-group"),
			Kind: FileKindGroup,
		},
	}
	p.Reindex()
	return p
}

// Dir returns the directory containing the project file.
func (p *Project) Dir() string {
	return filepath.Dir(p.Path)
}

// Dirty reports whether the project was modified since it was loaded or saved.
func (p *Project) Dirty() bool {
	return p.dirty
}

// MarkDirty flags the project for saving.
func (p *Project) MarkDirty() {
	p.dirty = true
}

// ClearDirty resets the modification flag.
func (p *Project) ClearDirty() {
	p.dirty = false
}

// Reindex rebuilds parent links and the element index from MainGroup.
func (p *Project) Reindex() {
	p.elements = make(map[InternedString]*FileElement)
	if p.MainGroup == nil {
		return
	}
	p.MainGroup.parent = nil
	var walk func(e *FileElement)
	walk = func(e *FileElement) {
		p.elements[e.ID] = e
		for _, c := range e.Children {
			c.parent = e
			walk(c)
		}
	}
	walk(p.MainGroup)
}

// Element looks up a file element by id.
func (p *Project) Element(id InternedString) (*FileElement, bool) {
	e, ok := p.elements[id]
	return e, ok
}

// ElementPath resolves the on-disk path of the element with the given id.
func (p *Project) ElementPath(id InternedString) (string, error) {
	e, ok := p.elements[id]
	if !ok {
		return "", zerr.With(zerr.With(ErrUnresolvedFileReference, "file", id.String()), "project", p.Name)
	}
	return e.FullPath(p.Dir()), nil
}

// AddElement appends child to parent and indexes the subtree.
func (p *Project) AddElement(parent, child *FileElement) {
	if parent == nil {
		parent = p.MainGroup
	}
	parent.Children = append(parent.Children, child)
	child.parent = parent
	var walk func(e *FileElement)
	walk = func(e *FileElement) {
		p.elements[e.ID] = e
		for _, c := range e.Children {
			c.parent = e
			walk(c)
		}
	}
	walk(child)
	p.dirty = true
}

// Group returns the top-level group with the given name, creating it when missing.
func (p *Project) Group(name string) *FileElement {
	if g := p.MainGroup.Child(name); g != nil && g.IsGroup() {
		return g
	}
	g := &FileElement{
		ID:   NewInternedString(p.Name + "-group-" + name),
		Name: name,
		Kind: FileKindGroup,
	}
	p.AddElement(p.MainGroup, g)
	return g
}

// DeleteElement removes e and its subtree from the file tree. A parent group
// left with only generated scaffolding is removed as well. The main group is
// never removed.
func (p *Project) DeleteElement(e *FileElement) {
	if e == nil || e == p.MainGroup {
		return
	}
	var unindex func(e *FileElement)
	unindex = func(e *FileElement) {
		delete(p.elements, e.ID)
		for _, c := range e.Children {
			unindex(c)
		}
	}
	unindex(e)

	parent := e.parent
	if parent == nil {
		return
	}
	parent.removeChild(e)
	p.dirty = true

	if parent != p.MainGroup && !parent.hasRequiredChildren() {
		p.DeleteElement(parent)
	}
}

// Target returns the target with the given id when it belongs to this project.
func (p *Project) Target(id InternedString) (*Target, bool) {
	for _, t := range p.Targets {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// AddTarget appends t to the project.
func (p *Project) AddTarget(t *Target) {
	t.Project = p
	p.Targets = append(p.Targets, t)
	p.dirty = true
}

// RemoveTarget drops the target and its scheme entries in this project.
func (p *Project) RemoveTarget(id InternedString) {
	p.Targets = slices.DeleteFunc(p.Targets, func(t *Target) bool { return t.ID == id })
	p.RemoveSchemeEntries(id)
	p.dirty = true
}

// RemoveSchemeEntries drops references to the target from every scheme.
// Schemes left empty are removed.
func (p *Project) RemoveSchemeEntries(id InternedString) {
	changed := false
	schemes := p.Schemes[:0]
	for _, s := range p.Schemes {
		before := len(s.Targets)
		s.Targets = slices.DeleteFunc(s.Targets, func(t InternedString) bool { return t == id })
		changed = changed || len(s.Targets) != before
		if len(s.Targets) > 0 {
			schemes = append(schemes, s)
		}
	}
	p.Schemes = schemes
	if changed {
		p.dirty = true
	}
}

// AddProjectReference records a reference to other, relative to this project's directory.
func (p *Project) AddProjectReference(other *Project) {
	if other == p {
		return
	}
	rel, err := filepath.Rel(p.Dir(), other.Path)
	if err != nil {
		rel = other.Path
	}
	if slices.Contains(p.ProjectReferences, rel) {
		return
	}
	p.ProjectReferences = append(p.ProjectReferences, rel)
	p.dirty = true
}

// BuildSetting returns the first value of key across sorted configurations.
func (p *Project) BuildSetting(key string) (string, bool) {
	for _, name := range SortedKeys(p.Configurations) {
		if v, ok := p.Configurations[name][key]; ok {
			return v, true
		}
	}
	return "", false
}

// SetBuildSetting sets key in every configuration of the project.
func (p *Project) SetBuildSetting(key, value string) {
	if len(p.Configurations) == 0 {
		p.Configurations = map[string]BuildSettings{"Debug": {}, "Release": {}}
	}
	for name, settings := range p.Configurations {
		if settings == nil {
			settings = BuildSettings{}
			p.Configurations[name] = settings
		}
		settings[key] = value
	}
	p.dirty = true
}

// IsPatched reports whether binaries are in use for this project.
func (p *Project) IsPatched() bool {
	v, ok := p.BuildSetting(PatchedSettingKey)
	return ok && strings.EqualFold(v, "YES")
}

// MarkPatched records that binaries are in use for this project.
func (p *Project) MarkPatched() {
	p.SetBuildSetting(PatchedSettingKey, "YES")
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
