package surgery

import (
	"cmp"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/zerr"
)

// buildDirSettings are the spellings under which support files refer to built products.
var buildDirSettings = []string{
	"${PODS_CONFIGURATION_BUILD_DIR}",
	"$(PODS_CONFIGURATION_BUILD_DIR)",
}

// SupportFilesPatcher prepares rewrites of support files so that references
// to built product folders point at binaries storage instead.
type SupportFilesPatcher struct{}

// NewSupportFilesPatcher creates a new SupportFilesPatcher.
func NewSupportFilesPatcher() *SupportFilesPatcher {
	return &SupportFilesPatcher{}
}

// PrepareReplacements returns one replacement per support file of user.
// Every support file must exist.
func (p *SupportFilesPatcher) PrepareReplacements(user *domain.Target, products []domain.BinaryProduct) ([]domain.FileReplacement, error) {
	if len(user.SupportFiles) == 0 || len(products) == 0 {
		return nil, nil
	}

	replacements := make(map[string]string, len(products)*len(buildDirSettings))
	for _, product := range products {
		folder := filepath.Dir(product.Path)
		for _, setting := range buildDirSettings {
			replacements[setting+"/"+product.Folder] = folder
		}
	}
	regex := replacementRegex(replacements)

	out := make([]domain.FileReplacement, 0, len(user.SupportFiles))
	for _, rel := range user.SupportFiles {
		path := rel
		if !filepath.IsAbs(path) {
			path = filepath.Join(user.Project.Dir(), rel)
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, zerr.With(zerr.With(domain.ErrMissingSupportFile, "path", path), "target", user.Name)
			}
			return nil, zerr.With(zerr.Wrap(err, "failed to stat support file"), "path", path)
		}
		out = append(out, domain.FileReplacement{
			Path:         path,
			Regex:        regex,
			Replacements: replacements,
		})
	}
	return out, nil
}

// folderEnd ends a product folder reference. A hyphen or dot does not, so
// "Alamofire" never matches inside "Alamofire-iOS".
const folderEnd = `(?:[/"'\s]|$)`

// replacementRegex captures any key in its first group, preferring longer keys.
func replacementRegex(replacements map[string]string) *regexp.Regexp {
	keys := domain.SortedKeys(replacements)
	slices.SortStableFunc(keys, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`(` + strings.Join(quoted, "|") + `)` + folderEnd)
}

// mergeReplacements combines replacements of the same file into one.
func mergeReplacements(in []domain.FileReplacement) []domain.FileReplacement {
	byPath := make(map[string]map[string]string)
	for _, r := range in {
		merged, ok := byPath[r.Path]
		if !ok {
			merged = make(map[string]string, len(r.Replacements))
			byPath[r.Path] = merged
		}
		for k, v := range r.Replacements {
			merged[k] = v
		}
	}

	out := make([]domain.FileReplacement, 0, len(byPath))
	for _, path := range domain.SortedKeys(byPath) {
		out = append(out, domain.FileReplacement{
			Path:         path,
			Regex:        replacementRegex(byPath[path]),
			Replacements: byPath[path],
		})
	}
	return out
}
