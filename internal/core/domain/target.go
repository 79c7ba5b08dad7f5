// Package domain contains the core models of a workspace: projects, targets,
// build phases and file elements, plus the derived dependency graph.
package domain

import "strings"

// ProductType describes what a target produces.
type ProductType string

// Product types understood by the engine.
const (
	ProductTypeFramework       ProductType = "framework"
	ProductTypeStaticFramework ProductType = "staticFramework"
	ProductTypeStaticLibrary   ProductType = "staticLibrary"
	ProductTypeBundle          ProductType = "bundle"
	ProductTypeApplication     ProductType = "application"
	ProductTypeUnitTest        ProductType = "unitTest"
	ProductTypeUITest          ProductType = "uiTest"
	ProductTypeAggregate       ProductType = "aggregate"
)

// IsBuildable reports whether products of this type can be cached as binaries.
func (t ProductType) IsBuildable() bool {
	switch t {
	case ProductTypeFramework, ProductTypeStaticFramework, ProductTypeStaticLibrary, ProductTypeBundle:
		return true
	default:
		return false
	}
}

// IsFramework reports whether the product is a framework.
func (t ProductType) IsFramework() bool {
	return t == ProductTypeFramework || t == ProductTypeStaticFramework
}

// Extension returns the file extension of a product of this type.
func (t ProductType) Extension() string {
	switch t {
	case ProductTypeFramework, ProductTypeStaticFramework:
		return ".framework"
	case ProductTypeStaticLibrary:
		return ".a"
	case ProductTypeBundle:
		return ".bundle"
	case ProductTypeApplication:
		return ".app"
	case ProductTypeUnitTest, ProductTypeUITest:
		return ".xctest"
	default:
		return ""
	}
}

// Product is the artifact a target builds.
type Product struct {
	Name string      `cbor:"name" yaml:"name"`
	Type ProductType `cbor:"type" yaml:"type"`
}

// FileName returns the product file name, e.g. "Alamofire.framework".
func (p Product) FileName() string {
	if p.Type == ProductTypeStaticLibrary && !strings.HasPrefix(p.Name, "lib") {
		return "lib" + p.Name + p.Type.Extension()
	}
	return p.Name + p.Type.Extension()
}

// BuildSettings maps build setting keys to values.
type BuildSettings map[string]string

// Target is a buildable unit within a project.
type Target struct {
	ID      InternedString
	Name    string
	Product *Product

	// Configurations holds per-configuration build settings.
	Configurations map[string]BuildSettings
	BuildPhases    []*BuildPhase

	// ExplicitDependencies are the direct edges declared in the project file.
	ExplicitDependencies []InternedString

	// SupportFiles are generated build configuration files (xcconfig-like)
	// owned by the target, relative to the project directory.
	SupportFiles []string

	// BinaryProducts are file element ids of prebuilt products linked into this target.
	BinaryProducts []InternedString

	// Dependencies is the transitive closure of ExplicitDependencies.
	// It is derived by Workspace.Resolve.
	Dependencies map[InternedString]*Target

	// Project is the owning project.
	Project *Project
}

// IsBuildable reports whether the target produces a cacheable binary.
func (t *Target) IsBuildable() bool {
	return t.Product != nil && t.Product.Type.IsBuildable()
}

// DependsOn reports whether id is in the transitive dependency closure.
func (t *Target) DependsOn(id InternedString) bool {
	_, ok := t.Dependencies[id]
	return ok
}

// HasExplicitDependency reports whether id is a direct dependency.
func (t *Target) HasExplicitDependency(id InternedString) bool {
	for _, dep := range t.ExplicitDependencies {
		if dep == id {
			return true
		}
	}
	return false
}

// FileIDs returns the ids of every file element referenced by the target's build phases.
func (t *Target) FileIDs() []InternedString {
	var ids []InternedString
	for _, phase := range t.BuildPhases {
		ids = append(ids, phase.Files...)
	}
	return ids
}

// BuildPhaseType enumerates the kinds of build phases.
type BuildPhaseType string

// Build phase types.
const (
	BuildPhaseSources      BuildPhaseType = "sources"
	BuildPhaseHeaders      BuildPhaseType = "headers"
	BuildPhaseResources    BuildPhaseType = "resources"
	BuildPhaseFrameworks   BuildPhaseType = "frameworks"
	BuildPhaseCopyFiles    BuildPhaseType = "copyFiles"
	BuildPhaseRunScript    BuildPhaseType = "runScript"
	BuildPhaseBuildRules   BuildPhaseType = "buildRules"
	BuildPhaseUnknownPhase BuildPhaseType = "unknown"
)

// BuildPhase is an ordered step of a target's build.
type BuildPhase struct {
	Name                               string
	Type                               BuildPhaseType
	BuildActionMask                    uint32
	RunOnlyForDeploymentPostprocessing bool
	Files                              []InternedString
	InputFileListPaths                 []string
	OutputFileListPaths                []string
}
