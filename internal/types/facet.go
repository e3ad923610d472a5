package types

// ModuleFacet is the per-module settings record stored in the
// workspace file. Descriptor may legitimately be blank: the module has
// the facet attached but no ivy file configured yet.
type ModuleFacet struct {
	Name           string   `yaml:"name"`
	Descriptor     string   `yaml:"descriptor"`
	Settings       string   `yaml:"settings,omitempty"`
	Configurations []string `yaml:"configurations,omitempty"`
}

// WorkspaceFile is the top-level ivybridge.yaml document.
type WorkspaceFile struct {
	APIVersion string        `yaml:"api_version"`
	Modules    []ModuleFacet `yaml:"modules"`
}
