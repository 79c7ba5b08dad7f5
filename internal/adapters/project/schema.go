package project

// ProjectFile represents the structure of a .rugbyproj file.
type ProjectFile struct {
	Name              string                       `json:"name"`
	Configurations    map[string]map[string]string `json:"configurations,omitempty"`
	ProjectReferences []string                     `json:"projectReferences,omitempty"`
	MainGroup         *ElementDTO                  `json:"mainGroup"`
	Targets           []TargetDTO                  `json:"targets"`
	Schemes           []SchemeDTO                  `json:"schemes,omitempty"`
}

// ElementDTO represents a group or file reference.
type ElementDTO struct {
	ID       string        `json:"id"`
	Name     string        `json:"name,omitempty"`
	Path     string        `json:"path,omitempty"`
	Kind     string        `json:"kind"`
	Children []*ElementDTO `json:"children,omitempty"`
}

// TargetDTO represents a target definition.
type TargetDTO struct {
	ID             string                       `json:"id"`
	Name           string                       `json:"name"`
	Product        *ProductDTO                  `json:"product,omitempty"`
	Configurations map[string]map[string]string `json:"configurations,omitempty"`
	Dependencies   []string                     `json:"dependencies,omitempty"`
	BuildPhases    []PhaseDTO                   `json:"buildPhases,omitempty"`
	SupportFiles   []string                     `json:"supportFiles,omitempty"`
	BinaryProducts []string                     `json:"binaryProducts,omitempty"`
}

// ProductDTO represents a target product.
type ProductDTO struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// PhaseDTO represents a build phase.
type PhaseDTO struct {
	Name                               string   `json:"name"`
	Type                               string   `json:"type"`
	BuildActionMask                    uint32   `json:"buildActionMask,omitempty"`
	RunOnlyForDeploymentPostprocessing bool     `json:"runOnlyForDeploymentPostprocessing,omitempty"`
	Files                              []string `json:"files,omitempty"`
	InputFileListPaths                 []string `json:"inputFileListPaths,omitempty"`
	OutputFileListPaths                []string `json:"outputFileListPaths,omitempty"`
}

// SchemeDTO represents a scheme.
type SchemeDTO struct {
	Name    string   `json:"name"`
	Targets []string `json:"targets"`
}
