package ports

import "ivybridge/internal/types"

// FacetPort reads per-module plugin settings from the workspace file.
// DescriptorPath and SettingsPath return an empty string when the
// module has the facet attached but the path is not configured; they
// fail with a coded error when the module has no facet entry at all.
type FacetPort interface {
	DescriptorPath(module string) (string, error)
	SettingsPath(module string) (string, error)
	Modules() ([]types.ModuleFacet, error)
}
