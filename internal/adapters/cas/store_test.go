package cas_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rugby/internal/adapters/cas"
	"go.trai.ch/rugby/internal/core/domain"
	"gopkg.in/yaml.v3"
)

func alamofire() *domain.Target {
	return &domain.Target{
		ID:      domain.NewInternedString("T-Alamofire"),
		Name:    "Alamofire",
		Product: &domain.Product{Name: "Alamofire", Type: domain.ProductTypeFramework},
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := cas.NewStore(t.TempDir())

	fp, ok, err := store.Get(alamofire(), "Debug")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, fp)
}

func TestStore_PutGet(t *testing.T) {
	dir := t.TempDir()
	store := cas.NewStore(dir)
	target := alamofire()

	require.NoError(t, store.Put(target, "Debug", "abc1234", nil))
	require.NoError(t, store.Put(target, "Release", "def5678", nil))
	require.NoError(t, store.Put(target, "Debug", "0011223", nil))

	fp, ok, err := store.Get(target, "Debug")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0011223", fp)

	fp, ok, err = store.Get(target, "Release")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "def5678", fp)

	_, err = os.Stat(filepath.Join(dir, "Alamofire-85a0a57d01a1.yaml"))
	require.NoError(t, err)
}

func TestStore_KeepsContext(t *testing.T) {
	dir := t.TempDir()
	store := cas.NewStore(dir)
	target := alamofire()

	ctx := &domain.TargetContext{
		Name:            "Alamofire",
		Product:         target.Product,
		BuildOptions:    []string{"CONFIGURATION=Debug"},
		BuildPhasesHash: "ffff",
		Dependencies:    []string{"Moya: 1234567"},
	}
	require.NoError(t, store.Put(target, "Debug", "abc1234", ctx))

	data, err := os.ReadFile(filepath.Join(dir, "Alamofire-85a0a57d01a1.yaml"))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, "Alamofire", raw["target"])
	assert.Equal(t, "T-Alamofire", raw["id"])
	assert.Equal(t, map[string]any{"Debug": "abc1234"}, raw["fingerprints"])

	context, ok := raw["context"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ffff", context["buildPhasesHash"])
	assert.Equal(t, []any{"Moya: 1234567"}, context["dependencies"])
}

func TestStore_CorruptRecord(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Alamofire-85a0a57d01a1.yaml"), []byte("fingerprints: [oops"), domain.FilePerm))

	_, _, err := cas.NewStore(dir).Get(alamofire(), "Debug")
	require.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())
}

func TestStore_ConcurrentPuts(t *testing.T) {
	store := cas.NewStore(t.TempDir())
	target := alamofire()

	var wg sync.WaitGroup
	for _, cfg := range []string{"Debug", "Release", "Profile", "Beta"} {
		wg.Go(func() {
			assert.NoError(t, store.Put(target, cfg, "fp-"+cfg, nil))
		})
	}
	wg.Wait()

	for _, cfg := range []string{"Debug", "Release", "Profile", "Beta"} {
		fp, ok, err := store.Get(target, cfg)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "fp-"+cfg, fp)
	}
}
