// Package surgery rewrites a workspace so that selected targets are consumed
// as prebuilt binaries instead of being built from source.
//
// Substitute works on the in-memory workspace only. Nothing reaches the disk
// until Commit is called with the resulting change set.
package surgery

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/rugby/internal/parallel"
	"go.trai.ch/zerr"
)

// Engine performs binary substitution on a workspace.
type Engine struct {
	binaries    ports.BinariesStorage
	states      *domain.TargetStates
	patcher     *SupportFilesPatcher
	editor      ports.FileEditor
	projects    ports.ProjectStore
	logger      ports.Logger
	tracer      ports.Tracer
	parallelism int
}

// NewEngine creates a new Engine.
func NewEngine(
	binaries ports.BinariesStorage,
	states *domain.TargetStates,
	editor ports.FileEditor,
	projects ports.ProjectStore,
	logger ports.Logger,
	tracer ports.Tracer,
	parallelism int,
) *Engine {
	return &Engine{
		binaries:    binaries,
		states:      states,
		patcher:     NewSupportFilesPatcher(),
		editor:      editor,
		projects:    projects,
		logger:      logger,
		tracer:      tracer,
		parallelism: parallelism,
	}
}

// Substitute replaces binaryTargets with their prebuilt products. Every
// validation happens before the workspace is modified.
func (e *Engine) Substitute(
	ctx context.Context,
	ws *domain.Workspace,
	binaryTargets []*domain.Target,
	keepGroups bool,
) (*ChangeSet, error) {
	if ws.Root.IsPatched() {
		return nil, domain.ErrAlreadyPatched
	}

	spanCtx, span := e.tracer.Start(ctx, "Patching Product Files")
	set, replacements, err := e.patchProductFiles(spanCtx, ws, toSet(binaryTargets))
	if err != nil {
		span.RecordError(err)
		span.End()
		return nil, err
	}
	span.End()

	removed := make([]*domain.Target, 0, len(set))
	for _, t := range ws.Targets() {
		if _, ok := set[t.ID]; ok {
			removed = append(removed, t)
		}
	}

	_, span = e.tracer.Start(ctx, fmt.Sprintf("Deleting Targets (%d)", len(removed)))
	deleteTargets(ws, removed, keepGroups)
	span.End()

	ws.Root.MarkPatched()
	if err := ws.Resolve(); err != nil {
		return nil, err
	}

	cs := &ChangeSet{Substituted: removed, Replacements: replacements}
	for _, p := range ws.DirtyProjects() {
		cs.Projects = append(cs.Projects, p.Path)
	}
	return cs, nil
}

// patchProductFiles attaches binary products to every binary user and
// prepares support file edits. It returns the final substitution set.
func (e *Engine) patchProductFiles(
	ctx context.Context,
	ws *domain.Workspace,
	set map[domain.InternedString]struct{},
) (map[domain.InternedString]struct{}, []domain.FileReplacement, error) {
	users := findBinaryUsers(ws, set)

	if bundles := resourceBundleTargets(ws, users, set); len(bundles) > 0 {
		for _, t := range bundles {
			e.logger.Debug("keeping resource bundle target " + t.Name)
			delete(set, t.ID)
		}
		users = findBinaryUsers(ws, set)
	}

	products := make(map[domain.InternedString][]domain.BinaryProduct, len(users))
	for _, user := range users {
		userProducts, err := e.binaryProducts(user, set)
		if err != nil {
			return nil, nil, err
		}
		products[user.ID] = userProducts
	}

	replacements, err := parallel.FlatMap(ctx, e.parallelism, users, func(_ context.Context, user *domain.Target) ([]domain.FileReplacement, error) {
		return e.patcher.PrepareReplacements(user, products[user.ID])
	})
	if err != nil {
		return nil, nil, err
	}

	for _, user := range users {
		linkBinaryProducts(user, products[user.ID])
		e.states.Update(user.ID, func(s *domain.TargetState) {
			s.BinaryProducts = products[user.ID]
		})
	}
	return set, mergeReplacements(replacements), nil
}

// binaryProducts records the binary dependencies of user and resolves their products.
func (e *Engine) binaryProducts(user *domain.Target, set map[domain.InternedString]struct{}) ([]domain.BinaryProduct, error) {
	var deps []*domain.Target
	for id, dep := range user.Dependencies {
		if _, ok := set[id]; ok {
			deps = append(deps, dep)
		}
	}
	deps = domain.SortedTargets(deps)

	ids := make([]domain.InternedString, 0, len(deps))
	products := make([]domain.BinaryProduct, 0, len(deps))
	for _, dep := range deps {
		if dep.Product == nil {
			return nil, zerr.With(zerr.With(domain.ErrMissingProduct, "target", dep.Name), "user", user.Name)
		}
		fp, ok := e.states.Fingerprint(dep.ID)
		if !ok {
			return nil, zerr.With(zerr.With(domain.ErrMissingFingerprint, "target", dep.Name), "user", user.Name)
		}
		ids = append(ids, dep.ID)
		products = append(products, domain.BinaryProduct{
			Target: dep.ID,
			Name:   dep.Product.FileName(),
			Folder: dep.Name,
			Type:   dep.Product.Type,
			Path:   e.binaries.ProductPath(dep, fp),
		})
	}

	e.states.Update(user.ID, func(s *domain.TargetState) {
		s.BinaryDependencies = ids
	})
	return products, nil
}

// findBinaryUsers returns targets outside set that depend on a target in set.
func findBinaryUsers(ws *domain.Workspace, set map[domain.InternedString]struct{}) []*domain.Target {
	var users []*domain.Target
	for _, t := range ws.Targets() {
		if _, ok := set[t.ID]; ok {
			continue
		}
		for id := range t.Dependencies {
			if _, ok := set[id]; ok {
				users = append(users, t)
				break
			}
		}
	}
	return users
}

// resourceBundleTargets returns targets in set whose product name matches a
// resource bundle copied by a dynamic framework user.
func resourceBundleTargets(ws *domain.Workspace, users []*domain.Target, set map[domain.InternedString]struct{}) []*domain.Target {
	names := make(map[string]struct{})
	for _, user := range users {
		if user.Product == nil || user.Product.Type != domain.ProductTypeFramework {
			continue
		}
		for _, name := range resourceBundleNames(user) {
			names[name] = struct{}{}
		}
	}
	if len(names) == 0 {
		return nil
	}

	var out []*domain.Target
	for id := range set {
		t, ok := ws.Target(id)
		if !ok || t.Product == nil {
			continue
		}
		if _, ok := names[t.Product.Name]; ok {
			out = append(out, t)
		}
	}
	return domain.SortedTargets(out)
}

// resourceBundleNames lists the bundles copied by the resources phases of t, without extension.
func resourceBundleNames(t *domain.Target) []string {
	var names []string
	for _, phase := range t.BuildPhases {
		if phase.Type != domain.BuildPhaseResources {
			continue
		}
		for _, id := range phase.Files {
			e, ok := t.Project.Element(id)
			if !ok {
				continue
			}
			name := e.DisplayName()
			if ext := filepath.Ext(name); ext == domain.ProductTypeBundle.Extension() {
				names = append(names, strings.TrimSuffix(name, ext))
			}
		}
	}
	return names
}

// linkBinaryProducts references the linkable products from user's project and frameworks phase.
func linkBinaryProducts(user *domain.Target, products []domain.BinaryProduct) {
	p := user.Project
	var (
		group      *domain.FileElement
		frameworks *domain.BuildPhase
	)

	for _, product := range products {
		if !linkable(product.Type) {
			continue
		}
		if group == nil {
			group = p.Group(domain.BinariesGroupName)
		}
		id := domain.NewInternedString("RB-" + p.Name + "-" + product.Target.String())
		if _, ok := p.Element(id); !ok {
			p.AddElement(group, &domain.FileElement{
				ID:   id,
				Name: product.Name,
				Path: product.Path,
				Kind: domain.FileKindFile,
			})
		}

		if frameworks == nil {
			frameworks = frameworksPhase(user)
		}
		if !slices.Contains(frameworks.Files, id) {
			frameworks.Files = append(frameworks.Files, id)
		}
		if !slices.Contains(user.BinaryProducts, id) {
			user.BinaryProducts = append(user.BinaryProducts, id)
		}
		p.MarkDirty()
	}
}

func linkable(t domain.ProductType) bool {
	return t == domain.ProductTypeFramework ||
		t == domain.ProductTypeStaticFramework ||
		t == domain.ProductTypeStaticLibrary
}

func frameworksPhase(t *domain.Target) *domain.BuildPhase {
	for _, phase := range t.BuildPhases {
		if phase.Type == domain.BuildPhaseFrameworks {
			return phase
		}
	}
	phase := &domain.BuildPhase{
		Name:            "Frameworks",
		Type:            domain.BuildPhaseFrameworks,
		BuildActionMask: 2147483647,
	}
	t.BuildPhases = append(t.BuildPhases, phase)
	return phase
}

func toSet(targets []*domain.Target) map[domain.InternedString]struct{} {
	set := make(map[domain.InternedString]struct{}, len(targets))
	for _, t := range targets {
		set[t.ID] = struct{}{}
	}
	return set
}

// Commit writes the change set: support files first, then the projects.
func (e *Engine) Commit(ctx context.Context, ws *domain.Workspace, cs *ChangeSet) error {
	if err := parallel.ForEach(ctx, e.parallelism, cs.Replacements, func(_ context.Context, r domain.FileReplacement) error {
		return e.editor.Replace(r)
	}); err != nil {
		return err
	}

	_, span := e.tracer.Start(ctx, "Saving Project")
	defer span.End()
	if err := e.projects.Save(ws); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
