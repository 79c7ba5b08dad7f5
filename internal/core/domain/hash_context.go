package domain

// PhaseContext is the hash-relevant description of one build phase.
type PhaseContext struct {
	Name                               string         `cbor:"name" yaml:"name"`
	Type                               BuildPhaseType `cbor:"type" yaml:"type"`
	BuildActionMask                    uint32         `cbor:"buildActionMask" yaml:"buildActionMask"`
	RunOnlyForDeploymentPostprocessing bool           `cbor:"runOnlyForDeploymentPostprocessing" yaml:"runOnlyForDeploymentPostprocessing"`
	InputFileListPaths                 []string       `cbor:"inputFileListPaths" yaml:"inputFileListPaths"`
	InputFileListPathsMissing          []string       `cbor:"inputFileListPaths_missing,omitempty" yaml:"inputFileListPaths_missing,omitempty"`
	OutputFileListPaths                []string       `cbor:"outputFileListPaths" yaml:"outputFileListPaths"`
	Files                              []string       `cbor:"files" yaml:"files"`
}

// TargetContext is the canonical description of a target from which its
// fingerprint is computed.
type TargetContext struct {
	Name            string   `cbor:"name" yaml:"name"`
	Product         *Product `cbor:"product" yaml:"product,omitempty"`
	BuildOptions    []string `cbor:"buildOptions" yaml:"buildOptions"`
	BuildPhasesHash string   `cbor:"buildPhasesHash" yaml:"buildPhasesHash"`
	// Dependencies holds "name: fingerprint" entries sorted lexicographically.
	Dependencies []string `cbor:"dependencies" yaml:"dependencies"`

	BuildPhases []PhaseContext `cbor:"-" yaml:"buildPhases,omitempty"`
}
