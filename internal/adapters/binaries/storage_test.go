package binaries_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rugby/internal/adapters/binaries"
	"go.trai.ch/rugby/internal/core/domain"
)

func TestStorage_Paths(t *testing.T) {
	storage := binaries.NewStorage("/home/u/.rugby/bin", "Debug", "sim")
	target := &domain.Target{
		Name:    "Alamofire",
		Product: &domain.Product{Name: "Alamofire", Type: domain.ProductTypeFramework},
	}

	assert.Equal(t, "/home/u/.rugby/bin/Alamofire/Debug-sim/abc1234", storage.ArtifactPath(target, "abc1234"))
	assert.Equal(t, "/home/u/.rugby/bin/Alamofire/Debug-sim/abc1234/Alamofire.framework", storage.ProductPath(target, "abc1234"))
}

func TestStorage_Exists(t *testing.T) {
	root := t.TempDir()
	storage := binaries.NewStorage(root, "Debug", "sim")
	target := &domain.Target{
		Name:    "Moya",
		Product: &domain.Product{Name: "Moya", Type: domain.ProductTypeFramework},
	}

	ok, err := storage.Exists(target, "abc1234")
	require.NoError(t, err)
	assert.False(t, ok, "missing directory")

	dir := storage.ArtifactPath(target, "abc1234")
	require.NoError(t, os.MkdirAll(dir, domain.DirPerm))

	ok, err = storage.Exists(target, "abc1234")
	require.NoError(t, err)
	assert.False(t, ok, "empty directory")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Moya.framework"), domain.DirPerm))

	ok, err = storage.Exists(target, "abc1234")
	require.NoError(t, err)
	assert.True(t, ok)
}
