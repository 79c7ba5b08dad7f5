package ports

import "go.trai.ch/rugby/internal/core/domain"

// ProjectStore reads and writes project files.
//
//go:generate mockgen -source=project.go -destination=mocks/mock_project.go -package=mocks
type ProjectStore interface {
	// Load reads the root project at path and every project it references.
	Load(path string) (*domain.Workspace, error)
	// Save writes every modified project of ws.
	Save(ws *domain.Workspace) error
}
