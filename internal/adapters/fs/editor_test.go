package fs_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rugby/internal/adapters/fs"
	"go.trai.ch/rugby/internal/core/domain"
)

func TestEditor_Replace(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "App.debug.xcconfig")
	writeFile(t, path, `FRAMEWORK_SEARCH_PATHS = "${PODS_CONFIGURATION_BUILD_DIR}/Alamofire" "${PODS_CONFIGURATION_BUILD_DIR}/AlamofireImage" "${PODS_CONFIGURATION_BUILD_DIR}/Alamofire-iOS"`)
	require.NoError(t, os.Chmod(path, 0o640))

	editor := fs.NewEditor()
	err := editor.Replace(domain.FileReplacement{
		Path:  path,
		Regex: regexp.MustCompile(`(\$\{PODS_CONFIGURATION_BUILD_DIR\}/Alamofire)(?:[/"'\s]|$)`),
		Replacements: map[string]string{
			"${PODS_CONFIGURATION_BUILD_DIR}/Alamofire": "/bin/Alamofire/Debug-sim/abc1234",
		},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `FRAMEWORK_SEARCH_PATHS = "/bin/Alamofire/Debug-sim/abc1234" "${PODS_CONFIGURATION_BUILD_DIR}/AlamofireImage" "${PODS_CONFIGURATION_BUILD_DIR}/Alamofire-iOS"`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEditor_Replace_MissingFile(t *testing.T) {
	err := fs.NewEditor().Replace(domain.FileReplacement{
		Path:  filepath.Join(t.TempDir(), "missing.xcconfig"),
		Regex: regexp.MustCompile("x"),
	})
	require.ErrorContains(t, err, domain.ErrMissingSupportFile.Error())
}
