package surgery_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rugby/internal/adapters/binaries"
	"go.trai.ch/rugby/internal/adapters/fs"
	"go.trai.ch/rugby/internal/adapters/telemetry"
	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports/mocks"
	"go.trai.ch/rugby/internal/engine/surgery"
	"go.trai.ch/rugby/internal/testutil"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	engine   *surgery.Engine
	states   *domain.TargetStates
	projects *mocks.MockProjectStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	projects := mocks.NewMockProjectStore(ctrl)
	states := domain.NewTargetStates()

	return &fixture{
		engine:   surgery.NewEngine(binaries.NewStorage("/bin", "Debug", "sim"), states, fs.NewEditor(), projects, log, telemetry.NewNoOpTracer(), 2),
		states:   states,
		projects: projects,
	}
}

// fingerprint records a fake fingerprint "fp<name>" for every target.
func (f *fixture) fingerprint(targets ...*domain.Target) {
	for _, t := range targets {
		f.states.Update(t.ID, func(s *domain.TargetState) { s.Fingerprint = "fp" + t.Name })
	}
}

func targetNames(ws *domain.Workspace) []string {
	return testutil.Names(ws.Targets())
}

// requirements captures, for every target, the names of all its dependencies.
func requirements(ws *domain.Workspace) map[string][]string {
	out := make(map[string][]string)
	for _, t := range ws.Targets() {
		var deps []*domain.Target
		for _, dep := range t.Dependencies {
			deps = append(deps, dep)
		}
		out[t.Name] = testutil.Names(deps)
	}
	return out
}

// assertClosure checks that every surviving target still reaches each of its
// former dependencies either as a target or as a binary product.
func assertClosure(t *testing.T, f *fixture, ws *domain.Workspace, before map[string][]string, removed []*domain.Target) {
	t.Helper()
	removedIDs := make(map[string]domain.InternedString)
	for _, r := range removed {
		removedIDs[r.Name] = r.ID
	}

	for _, target := range ws.Targets() {
		state, _ := f.states.Get(target.ID)
		for _, dep := range before[target.Name] {
			if id, ok := removedIDs[dep]; ok {
				assert.Contains(t, state.BinaryDependencies, id, "%s lost binary %s", target.Name, dep)
				continue
			}
			found, ok := ws.TargetNamed(dep)
			require.True(t, ok, "%s lost %s", target.Name, dep)
			assert.True(t, target.DependsOn(found.ID), "%s lost %s", target.Name, dep)
		}
	}
}

func TestEngine_LinearChain(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Target("App", "App", domain.ProductTypeApplication, "A")
	b.Target("Pods", "A", domain.ProductTypeFramework, "B")
	b.Target("Pods", "B", domain.ProductTypeFramework, "C")
	b.Target("Pods", "C", domain.ProductTypeFramework)
	ws := b.Build()
	before := requirements(ws)

	f := newFixture(t)
	cached := b.Targets("A", "B", "C")
	f.fingerprint(cached...)

	cs, err := f.engine.Substitute(t.Context(), ws, cached, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, testutil.Names(cs.Substituted))
	assert.Equal(t, []string{"App"}, targetNames(ws))
	assert.True(t, ws.Root.IsPatched())
	assertClosure(t, f, ws, before, cs.Substituted)

	app, _ := ws.TargetNamed("App")
	assert.Empty(t, app.ExplicitDependencies)
	require.Len(t, app.BinaryProducts, 3)

	state, _ := f.states.Get(app.ID)
	require.Len(t, state.BinaryProducts, 3)
	assert.Equal(t, domain.BinaryProduct{
		Target: b.Targets("A")[0].ID,
		Name:   "A.framework",
		Folder: "A",
		Type:   domain.ProductTypeFramework,
		Path:   "/bin/A/Debug-sim/fpA/A.framework",
	}, state.BinaryProducts[0])

	group := ws.Root.MainGroup.Child(domain.BinariesGroupName)
	require.NotNil(t, group)
	require.Len(t, group.Children, 3)
	assert.Equal(t, "/bin/A/Debug-sim/fpA/A.framework", group.Children[0].Path)

	var frameworks *domain.BuildPhase
	for _, phase := range app.BuildPhases {
		if phase.Type == domain.BuildPhaseFrameworks {
			frameworks = phase
		}
	}
	require.NotNil(t, frameworks)
	assert.Equal(t, app.BinaryProducts, frameworks.Files)

	assert.ElementsMatch(t, []string{ws.Root.Path, ws.Projects[1].Path}, cs.Projects)
}

func TestEngine_DiamondOnlyLeafCached(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Target("Pods", "A", domain.ProductTypeFramework, "B", "C")
	b.Target("Pods", "B", domain.ProductTypeFramework, "D")
	b.Target("Pods", "C", domain.ProductTypeFramework, "D")
	b.Target("Pods", "D", domain.ProductTypeFramework)
	ws := b.Build()
	before := requirements(ws)

	f := newFixture(t)
	f.fingerprint(b.Targets("D")...)

	cs, err := f.engine.Substitute(t.Context(), ws, b.Targets("D"), false)
	require.NoError(t, err)

	assert.Equal(t, []string{"D"}, testutil.Names(cs.Substituted))
	assert.Equal(t, []string{"A", "B", "C"}, targetNames(ws))
	assertClosure(t, f, ws, before, cs.Substituted)

	for _, name := range []string{"B", "C"} {
		target, _ := ws.TargetNamed(name)
		assert.Empty(t, target.ExplicitDependencies, name)
		require.Len(t, target.BinaryProducts, 1, name)
		state, _ := f.states.Get(target.ID)
		assert.Equal(t, "/bin/D/Debug-sim/fpD/D.framework", state.BinaryProducts[0].Path)
	}

	a, _ := ws.TargetNamed("A")
	assert.Equal(t, []domain.InternedString{
		domain.NewInternedString("T-B"),
		domain.NewInternedString("T-C"),
	}, a.ExplicitDependencies)
}

func TestEngine_PromotesSurvivingDependencies(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Target("App", "App", domain.ProductTypeApplication, "A")
	b.Target("Pods", "A", domain.ProductTypeFramework, "X")
	b.Target("Pods", "X", domain.ProductTypeFramework)
	ws := b.Build()
	before := requirements(ws)

	f := newFixture(t)
	f.fingerprint(b.Targets("A", "X")...)

	cs, err := f.engine.Substitute(t.Context(), ws, b.Targets("A"), false)
	require.NoError(t, err)
	assertClosure(t, f, ws, before, cs.Substituted)

	app, _ := ws.TargetNamed("App")
	x, _ := ws.TargetNamed("X")
	assert.Equal(t, []domain.InternedString{x.ID}, app.ExplicitDependencies)
}

func TestEngine_AlreadyPatched(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Target("App", "App", domain.ProductTypeApplication, "A")
	b.Target("Pods", "A", domain.ProductTypeFramework)
	ws := b.Build()

	f := newFixture(t)
	f.fingerprint(b.Targets("A")...)

	_, err := f.engine.Substitute(t.Context(), ws, b.Targets("A"), false)
	require.NoError(t, err)
	for _, p := range ws.Projects {
		p.ClearDirty()
	}
	after := targetNames(ws)

	_, err = f.engine.Substitute(t.Context(), ws, b.Targets("A"), false)
	require.ErrorIs(t, err, domain.ErrAlreadyPatched)
	assert.Equal(t, after, targetNames(ws))
	assert.Empty(t, ws.DirtyProjects())
}

func TestEngine_KeepsResourceBundleTargets(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Target("App", "App", domain.ProductTypeApplication, "Moya")
	b.Target("Pods", "Moya", domain.ProductTypeFramework, "Alamofire", "MoyaResources")
	b.Target("Pods", "Alamofire", domain.ProductTypeFramework)
	b.Target("Pods", "MoyaResources", domain.ProductTypeBundle)
	b.ResourceBundle("Moya", "MoyaResources")
	ws := b.Build()
	before := requirements(ws)

	f := newFixture(t)
	cached := b.Targets("Alamofire", "MoyaResources")
	f.fingerprint(cached...)

	cs, err := f.engine.Substitute(t.Context(), ws, cached, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alamofire"}, testutil.Names(cs.Substituted))
	assert.Equal(t, []string{"App", "Moya", "MoyaResources"}, targetNames(ws))
	assertClosure(t, f, ws, before, cs.Substituted)

	moya, _ := ws.TargetNamed("Moya")
	resources, _ := ws.TargetNamed("MoyaResources")
	assert.True(t, moya.HasExplicitDependency(resources.ID))
	state, _ := f.states.Get(moya.ID)
	require.Len(t, state.BinaryProducts, 1)
	assert.Equal(t, "Alamofire.framework", state.BinaryProducts[0].Name)
}

func TestEngine_StaticFrameworkUserDoesNotKeepBundles(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Target("Pods", "Moya", domain.ProductTypeStaticFramework, "MoyaResources")
	b.Target("Pods", "MoyaResources", domain.ProductTypeBundle)
	b.ResourceBundle("Moya", "MoyaResources")
	ws := b.Build()

	f := newFixture(t)
	f.fingerprint(b.Targets("MoyaResources")...)

	cs, err := f.engine.Substitute(t.Context(), ws, b.Targets("MoyaResources"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"MoyaResources"}, testutil.Names(cs.Substituted))

	moya, _ := ws.TargetNamed("Moya")
	assert.Empty(t, moya.BinaryProducts)
}

func TestEngine_DeletesSourceGroups(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Target("App", "App", domain.ProductTypeApplication, "A", "Shared")
	b.Target("Pods", "A", domain.ProductTypeFramework)
	b.Target("Pods", "Shared", domain.ProductTypeFramework)
	ws := b.Build()

	pods := ws.Projects[1]
	group, ok := pods.Element(domain.NewInternedString("G-A"))
	require.True(t, ok)
	pods.AddElement(group, &domain.FileElement{
		ID:   domain.NewInternedString("G-A-support"),
		Name: "Support Files",
		Kind: domain.FileKindGroup,
	})
	// Shared also compiles A's source file.
	shared, _ := ws.TargetNamed("Shared")
	sharedFile := domain.NewInternedString("F-A")
	shared.BuildPhases[0].Files = append(shared.BuildPhases[0].Files, sharedFile)
	a, _ := ws.TargetNamed("A")
	extra := &domain.FileElement{ID: domain.NewInternedString("F-A-extra"), Path: "Extra.swift", Kind: domain.FileKindFile}
	pods.AddElement(group, extra)
	a.BuildPhases[0].Files = append(a.BuildPhases[0].Files, extra.ID)

	f := newFixture(t)
	f.fingerprint(a)

	_, err := f.engine.Substitute(t.Context(), ws, []*domain.Target{a}, false)
	require.NoError(t, err)

	_, ok = pods.Element(extra.ID)
	assert.False(t, ok)
	_, ok = pods.Element(sharedFile)
	assert.True(t, ok, "file used by a surviving target is kept")
	_, ok = pods.Element(domain.NewInternedString("G-A"))
	assert.True(t, ok)
	_, ok = pods.Element(domain.NewInternedString("G-Shared"))
	assert.True(t, ok)
}

func TestEngine_DeletesScaffoldingOnlyGroups(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Target("App", "App", domain.ProductTypeApplication, "A")
	b.Target("Pods", "A", domain.ProductTypeFramework)
	ws := b.Build()

	pods := ws.Projects[1]
	group, _ := pods.Element(domain.NewInternedString("G-A"))
	pods.AddElement(group, &domain.FileElement{
		ID:   domain.NewInternedString("G-A-support"),
		Name: "Support Files",
		Kind: domain.FileKindGroup,
	})

	f := newFixture(t)
	f.fingerprint(b.Targets("A")...)

	_, err := f.engine.Substitute(t.Context(), ws, b.Targets("A"), false)
	require.NoError(t, err)

	_, ok := pods.Element(domain.NewInternedString("G-A"))
	assert.False(t, ok)
	_, ok = pods.Element(domain.NewInternedString("G-A-support"))
	assert.False(t, ok)
}

func TestEngine_KeepGroups(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Target("App", "App", domain.ProductTypeApplication, "A")
	b.Target("Pods", "A", domain.ProductTypeFramework)
	b.Scheme("Pods", "A", "A")
	ws := b.Build()

	f := newFixture(t)
	f.fingerprint(b.Targets("A")...)

	_, err := f.engine.Substitute(t.Context(), ws, b.Targets("A"), true)
	require.NoError(t, err)

	pods := ws.Projects[1]
	_, ok := pods.Element(domain.NewInternedString("F-A"))
	assert.True(t, ok)
	_, ok = pods.Element(domain.NewInternedString("G-A"))
	assert.True(t, ok)
	assert.Empty(t, pods.Schemes)
	assert.Empty(t, pods.Targets)
}

func TestEngine_SupportFiles(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Target("App", "App", domain.ProductTypeApplication, "A", "AB")
	b.Target("Pods", "A", domain.ProductTypeFramework)
	b.Target("Pods", "AB", domain.ProductTypeFramework)
	original := `FRAMEWORK_SEARCH_PATHS = "${PODS_CONFIGURATION_BUILD_DIR}/A" "$(PODS_CONFIGURATION_BUILD_DIR)/AB"` + "\n"
	xcconfig := b.SupportFile("App", filepath.Join("Target Support Files", "Pods-App", "Pods-App.debug.xcconfig"), original)
	ws := b.Build()

	f := newFixture(t)
	f.fingerprint(b.Targets("A")...)

	cs, err := f.engine.Substitute(t.Context(), ws, b.Targets("A"), false)
	require.NoError(t, err)

	require.Len(t, cs.Replacements, 1)
	assert.Equal(t, xcconfig, cs.Replacements[0].Path)
	assert.Equal(t, []string{ws.Root.Path, ws.Projects[1].Path, xcconfig}, cs.Files())

	data, err := os.ReadFile(xcconfig)
	require.NoError(t, err)
	assert.Equal(t, original, string(data), "substitution does not touch the disk")

	f.projects.EXPECT().Save(ws).Return(nil)
	require.NoError(t, f.engine.Commit(t.Context(), ws, cs))

	data, err = os.ReadFile(xcconfig)
	require.NoError(t, err)
	assert.Equal(t, `FRAMEWORK_SEARCH_PATHS = "/bin/A/Debug-sim/fpA" "$(PODS_CONFIGURATION_BUILD_DIR)/AB"`+"\n", string(data))
}

func TestEngine_MissingSupportFileLeavesWorkspaceUntouched(t *testing.T) {
	b := testutil.NewBuilder(t)
	app := b.Target("App", "App", domain.ProductTypeApplication, "A")
	b.Target("Pods", "A", domain.ProductTypeFramework)
	ws := b.Build()
	app.SupportFiles = []string{"Missing.xcconfig"}

	f := newFixture(t)
	f.fingerprint(b.Targets("A")...)

	_, err := f.engine.Substitute(t.Context(), ws, b.Targets("A"), false)
	require.ErrorContains(t, err, domain.ErrMissingSupportFile.Error())

	assert.Equal(t, []string{"A", "App"}, targetNames(ws))
	assert.False(t, ws.Root.IsPatched())
	assert.Empty(t, ws.DirtyProjects())
	assert.Empty(t, app.BinaryProducts)
}

func TestEngine_MissingProduct(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Target("App", "App", domain.ProductTypeApplication, "Tools")
	b.Target("Pods", "Tools", "")
	ws := b.Build()

	f := newFixture(t)
	f.fingerprint(b.Targets("Tools")...)

	_, err := f.engine.Substitute(t.Context(), ws, b.Targets("Tools"), false)
	require.ErrorContains(t, err, domain.ErrMissingProduct.Error())
	assert.Equal(t, []string{"App", "Tools"}, targetNames(ws))
	assert.Empty(t, ws.DirtyProjects())
}

func TestEngine_NothingToSubstitute(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Target("App", "App", domain.ProductTypeApplication)
	ws := b.Build()

	cs, err := newFixture(t).engine.Substitute(t.Context(), ws, nil, false)
	require.NoError(t, err)

	assert.Empty(t, cs.Substituted)
	assert.True(t, ws.Root.IsPatched())
	assert.Equal(t, []string{ws.Root.Path}, cs.Files())
}

func TestEngine_ReportsSteps(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Target("App", "App", domain.ProductTypeApplication, "A")
	b.Target("Pods", "A", domain.ProductTypeFramework)
	ws := b.Build()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	projects := mocks.NewMockProjectStore(ctrl)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)
	saveErr := errors.New("read-only file system")

	gomock.InOrder(
		tracer.EXPECT().Start(gomock.Any(), "Patching Product Files").Return(t.Context(), span),
		span.EXPECT().End(),
		tracer.EXPECT().Start(gomock.Any(), "Deleting Targets (1)").Return(t.Context(), span),
		span.EXPECT().End(),
		tracer.EXPECT().Start(gomock.Any(), "Saving Project").Return(t.Context(), span),
		projects.EXPECT().Save(ws).Return(saveErr),
		span.EXPECT().RecordError(saveErr),
		span.EXPECT().End(),
	)

	states := domain.NewTargetStates()
	states.Update(b.Targets("A")[0].ID, func(s *domain.TargetState) { s.Fingerprint = "fpA" })
	engine := surgery.NewEngine(binaries.NewStorage("/bin", "Debug", "sim"), states, fs.NewEditor(), projects, log, tracer, 1)

	cs, err := engine.Substitute(t.Context(), ws, b.Targets("A"), false)
	require.NoError(t, err)
	require.ErrorIs(t, engine.Commit(t.Context(), ws, cs), saveErr)
}
