package ports

import "go.trai.ch/rugby/internal/core/domain"

// FileEditor applies in-place text replacements.
//
//go:generate mockgen -source=editor.go -destination=mocks/mock_editor.go -package=mocks
type FileEditor interface {
	Replace(r domain.FileReplacement) error
}
