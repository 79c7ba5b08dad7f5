package hashing

import (
	"regexp"
	"strings"

	"go.trai.ch/rugby/internal/core/domain"
)

// maxResolveDepth bounds nested setting expansion.
const maxResolveDepth = 8

var settingRef = regexp.MustCompile(`\$\(([A-Za-z_][A-Za-z0-9_]*)\)|\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// Resolver expands build setting references in paths.
// Supported spellings are $(NAME), ${NAME} and $NAME.
type Resolver struct {
	settings domain.BuildSettings
}

// NewResolver creates a resolver over settings.
func NewResolver(settings domain.BuildSettings) *Resolver {
	return &Resolver{settings: settings}
}

// Resolve expands every known reference in value. Unknown references are
// left untouched, so the result still contains "$" when resolution failed.
func (r *Resolver) Resolve(value string) string {
	for range maxResolveDepth {
		if !strings.Contains(value, "$") {
			return value
		}
		next := settingRef.ReplaceAllStringFunc(value, r.lookup)
		if next == value {
			return value
		}
		value = next
	}
	return value
}

func (r *Resolver) lookup(ref string) string {
	m := settingRef.FindStringSubmatch(ref)
	name := m[1] + m[2] + m[3]
	if name == "inherited" {
		return ""
	}
	if v, ok := r.settings[name]; ok {
		return v
	}
	return ref
}

// IsResolved reports whether value has no references left.
func IsResolved(value string) bool {
	return !strings.Contains(value, "$")
}
