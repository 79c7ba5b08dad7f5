package project_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rugby/internal/adapters/project"
	"go.trai.ch/rugby/internal/core/domain"
)

const appProject = `{
  // Application project
  "name": "App",
  "configurations": {"Debug": {}, "Release": {}},
  "projectReferences": ["Pods/Pods.rugbyproj"],
  "mainGroup": {
    "id": "G-main",
    "kind": "group",
    "children": [
      {"id": "F-main", "path": "main.swift", "kind": "file"},
    ],
  },
  "targets": [
    {
      "id": "T-App",
      "name": "App",
      "product": {"name": "App", "type": "application"},
      "dependencies": ["T-Alamofire"],
      "buildPhases": [{"name": "Sources", "type": "sources", "files": ["F-main"]}],
    },
  ],
}
`

const podsProject = `{
  "configurations": {"Debug": {"SWIFT_VERSION": "5.0"}},
  "mainGroup": {
    "id": "G-pods",
    "kind": "group",
    "children": [
      {
        "id": "G-alamofire",
        "name": "Alamofire",
        "path": "Alamofire",
        "kind": "group",
        "children": [{"id": "F-session", "path": "Session.swift", "kind": "file"}]
      }
    ]
  },
  "targets": [
    {
      "id": "T-Alamofire",
      "name": "Alamofire",
      "product": {"name": "Alamofire", "type": "framework"},
      "buildPhases": [{"name": "Sources", "type": "sources", "files": ["F-session"]}],
      "supportFiles": ["Target Support Files/Alamofire/Alamofire.debug.xcconfig"]
    }
  ],
  "schemes": [{"name": "Alamofire", "targets": ["T-Alamofire"]}]
}
`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Pods"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "App.rugbyproj"), []byte(appProject), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Pods", "Pods.rugbyproj"), []byte(podsProject), 0o644))
	return filepath.Join(dir, "App.rugbyproj")
}

func TestStore_Load(t *testing.T) {
	path := writeFixture(t)
	store := project.NewStore()

	ws, err := store.Load(path)
	require.NoError(t, err)

	require.Len(t, ws.Projects, 2)
	assert.Equal(t, "App", ws.Root.Name)
	assert.Equal(t, "Pods", ws.Projects[1].Name)

	app, ok := ws.TargetNamed("App")
	require.True(t, ok)
	assert.True(t, app.DependsOn(domain.NewInternedString("T-Alamofire")))

	alamofire, ok := ws.TargetNamed("Alamofire")
	require.True(t, ok)
	assert.True(t, alamofire.IsBuildable())
	assert.Equal(t, ws.Projects[1], alamofire.Project)

	sessionPath, err := alamofire.Project.ElementPath(domain.NewInternedString("F-session"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "Pods", "Alamofire", "Session.swift"), sessionPath)

	for _, p := range ws.Projects {
		assert.False(t, p.Dirty(), p.Name)
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := project.NewStore()

	_, err := store.Load(filepath.Join(t.TempDir(), "Missing.rugbyproj"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrProjectRead.Error())
}

func TestStore_LoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Broken.rugbyproj")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": `), 0o644))

	_, err := project.NewStore().Load(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrProjectParse.Error())
}

func TestStore_LoadMissingDependency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "App.rugbyproj")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "name": "App",
  "mainGroup": {"id": "G", "kind": "group"},
  "targets": [{"id": "T-App", "name": "App", "dependencies": ["T-Ghost"]}]
}`), 0o644))

	_, err := project.NewStore().Load(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrMissingDependency.Error())
}

func TestStore_SaveOnlyDirty(t *testing.T) {
	path := writeFixture(t)
	podsPath := filepath.Join(filepath.Dir(path), "Pods", "Pods.rugbyproj")
	store := project.NewStore()

	ws, err := store.Load(path)
	require.NoError(t, err)

	ws.Root.MarkPatched()
	require.NoError(t, store.Save(ws))
	assert.False(t, ws.Root.Dirty())

	pods, err := os.ReadFile(podsPath)
	require.NoError(t, err)
	assert.Equal(t, podsProject, string(pods))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var saved project.ProjectFile
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "YES", saved.Configurations["Debug"][domain.PatchedSettingKey])
	assert.Equal(t, "YES", saved.Configurations["Release"][domain.PatchedSettingKey])
	assert.Equal(t, []string{"Pods/Pods.rugbyproj"}, saved.ProjectReferences)
}

func TestStore_SaveRoundTrip(t *testing.T) {
	path := writeFixture(t)
	store := project.NewStore()

	ws, err := store.Load(path)
	require.NoError(t, err)

	alamofire, ok := ws.TargetNamed("Alamofire")
	require.True(t, ok)
	app, ok := ws.TargetNamed("App")
	require.True(t, ok)

	ws.DeleteDependencies(app, map[domain.InternedString]struct{}{alamofire.ID: {}})
	ws.RemoveTarget(alamofire)
	require.NoError(t, store.Save(ws))

	reloaded, err := store.Load(path)
	require.NoError(t, err)

	_, ok = reloaded.TargetNamed("Alamofire")
	assert.False(t, ok)
	reloadedApp, ok := reloaded.TargetNamed("App")
	require.True(t, ok)
	assert.Empty(t, reloadedApp.ExplicitDependencies)
	assert.Empty(t, reloaded.Projects[1].Schemes)
}
