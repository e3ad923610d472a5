package app

import "ivybridge/internal/types"

// ModuleTarget selects the descriptor to operate on: either a module
// name looked up through the workspace file's facet records, or a
// direct descriptor path. Settings overrides the facet's settings
// file when set.
type ModuleTarget struct {
	WorkspaceFile string
	Module        string
	Descriptor    string
	Settings      string
}

type ConfigurationsRequest struct {
	Target ModuleTarget
}

type ConfigurationSummary struct {
	Name        string
	Visibility  types.Visibility
	Description string
	Extends     []string
}

type ConfigurationsResult struct {
	Module         string
	Descriptor     string
	Configurations []ConfigurationSummary
	// Missing is set when there is nothing to show: no descriptor
	// path configured, the file is absent, or it failed to parse for
	// a non-syntax reason.
	Missing bool
}

type ValidateRequest struct {
	Target ModuleTarget
}

type ValidateResult struct {
	Organisation   string
	Module         string
	Revision       string
	Configurations int
	Dependencies   int
}

type ResolveRequest struct {
	Target    ModuleTarget
	Confs     []string
	OutputDir string
	CacheDir  string
}

type ResolveResult struct {
	Organisation   string
	Module         string
	Configurations []string
	Dependencies   int
	Evictions      int
	OutputDir      string
}

type InfoRequest struct {
	Target ModuleTarget
}

type InfoResult struct {
	Organisation   string
	Module         string
	Revision       string
	Status         string
	Configurations []ConfigurationSummary
	Dependencies   []InfoDependency
	Publications   []InfoArtifact
}

type InfoDependency struct {
	Organisation string
	Module       string
	Revision     string
	Transitive   bool
}

type InfoArtifact struct {
	Name string
	Type string
	Ext  string
}

type ModulesRequest struct {
	WorkspaceFile string
	DiscoverRoots []string
}

type ModuleSummary struct {
	Name           string
	Descriptor     string
	Settings       string
	Configurations []string
}

type ModulesResult struct {
	Modules    []ModuleSummary
	Discovered []string
}
