// Package project reads and writes .rugbyproj project files.
//
// Project files are JSON with comments and trailing commas allowed.
// Referenced projects are loaded transitively into one workspace.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"go.trai.ch/rugby/internal/adapters/fs"
	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ProjectStore = (*Store)(nil)

// Store implements ports.ProjectStore.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load reads the root project at path and every project it references.
func (s *Store) Load(path string) (*domain.Workspace, error) {
	rootPath, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrProjectRead.Error()), "path", path)
	}

	var projects []*domain.Project
	seen := make(map[string]struct{})
	queue := []string{rootPath}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, ok := seen[current]; ok {
			continue
		}
		seen[current] = struct{}{}

		p, err := s.read(current)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)

		for _, ref := range p.ProjectReferences {
			if !filepath.IsAbs(ref) {
				ref = filepath.Join(p.Dir(), ref)
			}
			queue = append(queue, filepath.Clean(ref))
		}
	}

	ws := domain.NewWorkspace(projects[0], projects[1:]...)
	if err := ws.Resolve(); err != nil {
		return nil, zerr.With(err, "project", rootPath)
	}
	return ws, nil
}

func (s *Store) read(path string) (*domain.Project, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrProjectRead.Error()), "path", path)
	}

	var file ProjectFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrProjectParse.Error()), "path", path)
	}
	if file.Name == "" {
		file.Name = nameFromPath(path)
	}

	return toDomain(path, &file), nil
}

// Save writes every modified project of ws.
func (s *Store) Save(ws *domain.Workspace) error {
	for _, p := range ws.DirtyProjects() {
		data, err := json.MarshalIndent(fromDomain(p), "", "  ")
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrProjectWrite.Error()), "path", p.Path)
		}
		data = append(data, '\n')

		perm := os.FileMode(domain.FilePerm)
		if info, err := os.Stat(p.Path); err == nil {
			perm = info.Mode().Perm()
		}
		if err := fs.WriteFileAtomic(p.Path, data, perm); err != nil {
			return zerr.Wrap(err, domain.ErrProjectWrite.Error())
		}
		p.ClearDirty()
	}
	return nil
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
