package project

import (
	"go.trai.ch/rugby/internal/core/domain"
)

func toDomain(path string, file *ProjectFile) *domain.Project {
	p := domain.NewProject(path, file.Name)
	p.Configurations = toSettingsMap(file.Configurations)
	p.ProjectReferences = file.ProjectReferences
	if file.MainGroup != nil {
		p.MainGroup = toElement(file.MainGroup)
	}
	p.Reindex()

	for _, dto := range file.Targets {
		t := &domain.Target{
			ID:                   domain.NewInternedString(dto.ID),
			Name:                 dto.Name,
			Configurations:       toSettingsMap(dto.Configurations),
			ExplicitDependencies: domain.NewInternedStrings(dto.Dependencies...),
			SupportFiles:         dto.SupportFiles,
			BinaryProducts:       domain.NewInternedStrings(dto.BinaryProducts...),
		}
		if dto.Product != nil {
			t.Product = &domain.Product{Name: dto.Product.Name, Type: domain.ProductType(dto.Product.Type)}
		}
		for _, ph := range dto.BuildPhases {
			t.BuildPhases = append(t.BuildPhases, &domain.BuildPhase{
				Name:                               ph.Name,
				Type:                               domain.BuildPhaseType(ph.Type),
				BuildActionMask:                    ph.BuildActionMask,
				RunOnlyForDeploymentPostprocessing: ph.RunOnlyForDeploymentPostprocessing,
				Files:                              domain.NewInternedStrings(ph.Files...),
				InputFileListPaths:                 ph.InputFileListPaths,
				OutputFileListPaths:                ph.OutputFileListPaths,
			})
		}
		p.AddTarget(t)
	}

	for _, s := range file.Schemes {
		p.Schemes = append(p.Schemes, domain.Scheme{Name: s.Name, Targets: domain.NewInternedStrings(s.Targets...)})
	}

	p.ClearDirty()
	return p
}

func toElement(dto *ElementDTO) *domain.FileElement {
	e := &domain.FileElement{
		ID:   domain.NewInternedString(dto.ID),
		Name: dto.Name,
		Path: dto.Path,
		Kind: domain.FileKind(dto.Kind),
	}
	if e.Kind == "" {
		e.Kind = domain.FileKindFile
	}
	for _, c := range dto.Children {
		e.Children = append(e.Children, toElement(c))
	}
	return e
}

func toSettingsMap(in map[string]map[string]string) map[string]domain.BuildSettings {
	out := make(map[string]domain.BuildSettings, len(in))
	for name, settings := range in {
		out[name] = domain.BuildSettings(settings)
	}
	return out
}

func fromDomain(p *domain.Project) *ProjectFile {
	file := &ProjectFile{
		Name:              p.Name,
		Configurations:    fromSettingsMap(p.Configurations),
		ProjectReferences: p.ProjectReferences,
		MainGroup:         fromElement(p.MainGroup),
	}

	file.Targets = make([]TargetDTO, 0, len(p.Targets))
	for _, t := range p.Targets {
		dto := TargetDTO{
			ID:             t.ID.String(),
			Name:           t.Name,
			Configurations: fromSettingsMap(t.Configurations),
			Dependencies:   domain.Strings(t.ExplicitDependencies),
			SupportFiles:   t.SupportFiles,
			BinaryProducts: domain.Strings(t.BinaryProducts),
		}
		if t.Product != nil {
			dto.Product = &ProductDTO{Name: t.Product.Name, Type: string(t.Product.Type)}
		}
		for _, ph := range t.BuildPhases {
			dto.BuildPhases = append(dto.BuildPhases, PhaseDTO{
				Name:                               ph.Name,
				Type:                               string(ph.Type),
				BuildActionMask:                    ph.BuildActionMask,
				RunOnlyForDeploymentPostprocessing: ph.RunOnlyForDeploymentPostprocessing,
				Files:                              domain.Strings(ph.Files),
				InputFileListPaths:                 ph.InputFileListPaths,
				OutputFileListPaths:                ph.OutputFileListPaths,
			})
		}
		file.Targets = append(file.Targets, dto)
	}

	for _, s := range p.Schemes {
		file.Schemes = append(file.Schemes, SchemeDTO{Name: s.Name, Targets: domain.Strings(s.Targets)})
	}
	return file
}

func fromElement(e *domain.FileElement) *ElementDTO {
	if e == nil {
		return nil
	}
	dto := &ElementDTO{
		ID:   e.ID.String(),
		Name: e.Name,
		Path: e.Path,
		Kind: string(e.Kind),
	}
	for _, c := range e.Children {
		dto.Children = append(dto.Children, fromElement(c))
	}
	return dto
}

func fromSettingsMap(in map[string]domain.BuildSettings) map[string]map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]map[string]string, len(in))
	for name, settings := range in {
		out[name] = settings
	}
	return out
}
