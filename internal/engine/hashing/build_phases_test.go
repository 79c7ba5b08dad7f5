package hashing_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rugby/internal/adapters/fs"
	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports/mocks"
	"go.trai.ch/rugby/internal/engine/hashing"
	"go.trai.ch/rugby/internal/testutil"
	"go.uber.org/mock/gomock"
)

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return log
}

func newPhaseHasher(t *testing.T) *hashing.BuildPhaseHasher {
	t.Helper()
	return hashing.NewBuildPhaseHasher(fs.NewHasher(fs.NewWalker()), quietLogger(t), 2)
}

func TestSelectConfiguration(t *testing.T) {
	project := domain.NewProject("/work/App.rugbyproj", "App")
	project.Configurations = map[string]domain.BuildSettings{"Staging": {}, "Beta": {}}

	target := &domain.Target{
		Name:           "Alamofire",
		Project:        project,
		Configurations: map[string]domain.BuildSettings{"Release": {}, "Debug": {}},
	}
	assert.Equal(t, "Debug", hashing.SelectConfiguration(target))

	target.Configurations = nil
	assert.Equal(t, "Beta", hashing.SelectConfiguration(target))

	project.Configurations = nil
	assert.Empty(t, hashing.SelectConfiguration(target))
}

func TestSettings(t *testing.T) {
	project := domain.NewProject("/work/Pods/Pods.rugbyproj", "Pods")
	project.Configurations = map[string]domain.BuildSettings{
		"Debug": {"SWIFT_VERSION": "5.0", "OTHER": "project"},
	}
	target := &domain.Target{
		Name:    "Alamofire",
		Product: &domain.Product{Name: "AF", Type: domain.ProductTypeFramework},
		Project: project,
		Configurations: map[string]domain.BuildSettings{
			"Debug": {"OTHER": "target", "EFFECTIVE_PLATFORM_NAME": "-iphoneos"},
		},
	}

	settings := hashing.Settings(target)
	assert.Equal(t, "5.0", settings["SWIFT_VERSION"])
	assert.Equal(t, "target", settings["OTHER"])
	assert.Equal(t, "-iphonesimulator", settings["EFFECTIVE_PLATFORM_NAME"])
	assert.Equal(t, "/work/Pods", settings["SRCROOT"])
	assert.Equal(t, "/work/Pods", settings["PROJECT_DIR"])
	assert.Equal(t, "/work/Pods", settings["PODS_ROOT"])
	assert.Equal(t, "Alamofire", settings["TARGET_NAME"])
	assert.Equal(t, "AF", settings["PRODUCT_NAME"])
	assert.Equal(t, "Debug", settings["CONFIGURATION"])
}

func TestBuildPhaseHasher_Files(t *testing.T) {
	b := testutil.NewBuilder(t)
	target := b.Target("Pods", "Alamofire", domain.ProductTypeFramework)
	b.Build()

	phases, err := newPhaseHasher(t).HashContext(t.Context(), target)
	require.NoError(t, err)
	require.Len(t, phases, 1)

	assert.Equal(t, "Sources", phases[0].Name)
	assert.Equal(t, domain.BuildPhaseSources, phases[0].Type)
	assert.Equal(t, []string{"Alamofire/Alamofire.swift: b52ae2f0f18a3551"}, phases[0].Files)
	assert.Empty(t, phases[0].InputFileListPaths)
	assert.Nil(t, phases[0].InputFileListPathsMissing)
}

func TestBuildPhaseHasher_FileLists(t *testing.T) {
	b := testutil.NewBuilder(t)
	target := b.Target("Pods", "Alamofire", domain.ProductTypeFramework)
	b.Build()

	dir := b.Dir()
	testutil.WriteFile(t, filepath.Join(dir, "Resources", "A.txt"), "A\n")
	testutil.WriteFile(t, filepath.Join(dir, "Resources", "B.txt"), "B\n")
	testutil.WriteFile(t, filepath.Join(dir, "Target Support Files", "Alamofire", "inputs.xcfilelist"),
		"${PODS_ROOT}/Resources/A.txt\n\n$(SRCROOT)/Resources/B.txt\n$(NOPE)/C.txt\n${PODS_ROOT}/Resources/Gone.txt\n")

	target.BuildPhases = append(target.BuildPhases, &domain.BuildPhase{
		Name: "[CP] Copy Resources",
		Type: domain.BuildPhaseRunScript,
		InputFileListPaths: []string{
			"${PODS_ROOT}/Target Support Files/Alamofire/inputs.xcfilelist",
			"$(UNKNOWN)/x.xcfilelist",
			"missing.xcfilelist",
		},
		OutputFileListPaths: []string{
			"${PODS_ROOT}/Outputs/b.txt",
			"${PODS_ROOT}/Outputs/a.txt",
		},
	})

	phases, err := newPhaseHasher(t).HashContext(t.Context(), target)
	require.NoError(t, err)
	require.Len(t, phases, 2)

	script := phases[1]
	assert.Equal(t, "[CP] Copy Resources", script.Name)
	assert.Equal(t, []string{
		"Resources/A.txt: b83c9e6e28309f66",
		"Resources/B.txt: a16e7d3ee61b48e9",
	}, script.InputFileListPaths)
	assert.Equal(t, []string{
		"$(NOPE)/C.txt",
		"$(UNKNOWN)/x.xcfilelist",
		"Resources/Gone.txt",
		"missing.xcfilelist",
	}, script.InputFileListPathsMissing)
	assert.Equal(t, []string{"Outputs/a.txt", "Outputs/b.txt"}, script.OutputFileListPaths)
	assert.Empty(t, script.Files)
}

func TestBuildPhaseHasher_UnresolvedFileReference(t *testing.T) {
	b := testutil.NewBuilder(t)
	target := b.Target("Pods", "Alamofire", domain.ProductTypeFramework)
	b.Build()

	target.BuildPhases[0].Files = append(target.BuildPhases[0].Files, domain.NewInternedString("F-ghost"))

	_, err := newPhaseHasher(t).HashContext(t.Context(), target)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnresolvedFileReference.Error())
}

func TestBuildPhaseHasher_HasherFailure(t *testing.T) {
	b := testutil.NewBuilder(t)
	target := b.Target("Pods", "Alamofire", domain.ProductTypeFramework)
	b.Build()

	ctrl := gomock.NewController(t)
	hasher := mocks.NewMockFileHasher(ctrl)
	dir := target.Project.Dir()
	hasher.EXPECT().
		HashContext(dir, []string{filepath.Join(dir, "Alamofire", "Alamofire.swift")}).
		Return(nil, errors.New("input/output error"))

	_, err := hashing.NewBuildPhaseHasher(hasher, quietLogger(t), 1).HashContext(t.Context(), target)
	require.ErrorContains(t, err, "input/output error")
}

func TestBuildPhaseHasher_MissingEntriesAreRelative(t *testing.T) {
	phase := func() domain.PhaseContext {
		b := testutil.NewBuilder(t)
		target := b.Target("Pods", "Alamofire", domain.ProductTypeFramework)
		b.Build()
		testutil.WriteFile(t, filepath.Join(b.Dir(), "Target Support Files", "Alamofire", "inputs.xcfilelist"),
			"${PODS_ROOT}/Resources/$(ARCHS)/A.txt\n")

		target.BuildPhases = append(target.BuildPhases, &domain.BuildPhase{
			Name: "[CP] Embed Frameworks",
			Type: domain.BuildPhaseRunScript,
			InputFileListPaths: []string{
				"${PODS_ROOT}/Target Support Files/Alamofire/in-$(ARCHS).xcfilelist",
				"${PODS_ROOT}/Target Support Files/Alamofire/inputs.xcfilelist",
			},
		})

		phases, err := newPhaseHasher(t).HashContext(t.Context(), target)
		require.NoError(t, err)
		require.Len(t, phases, 2)
		return phases[1]
	}

	first, second := phase(), phase()
	assert.Equal(t, []string{
		"Resources/$(ARCHS)/A.txt",
		"Target Support Files/Alamofire/in-$(ARCHS).xcfilelist",
	}, first.InputFileListPathsMissing)
	assert.Equal(t, first, second)
}
