package adapters

import (
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"ivybridge/internal/ports"
	"ivybridge/internal/types"
)

// FacetFileAdapter reads per-module facet records from the workspace
// file (ivybridge.yaml).
type FacetFileAdapter struct {
	Path   string
	cached types.WorkspaceFile
	loaded bool
}

func NewFacetFileAdapter(path string) *FacetFileAdapter {
	return &FacetFileAdapter{Path: path}
}

// DescriptorPath returns the configured ivy file path for the module,
// or an empty string when the facet is attached but no path is set.
// A module without a facet entry is a caller invariant violation and
// fails with a FailedPrecondition error.
func (a *FacetFileAdapter) DescriptorPath(module string) (string, error) {
	facet, err := a.facet(module)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(facet.Descriptor), nil
}

func (a *FacetFileAdapter) SettingsPath(module string) (string, error) {
	facet, err := a.facet(module)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(facet.Settings), nil
}

func (a *FacetFileAdapter) Modules() ([]types.ModuleFacet, error) {
	workspace, err := a.load()
	if err != nil {
		return nil, err
	}
	return workspace.Modules, nil
}

func (a *FacetFileAdapter) facet(module string) (types.ModuleFacet, error) {
	workspace, err := a.load()
	if err != nil {
		return types.ModuleFacet{}, err
	}
	for _, facet := range workspace.Modules {
		if facet.Name == module {
			return facet, nil
		}
	}
	return types.ModuleFacet{}, errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("no ivy facet configured for module %s, but an attempt was made to use it as such", module))
}

func (a *FacetFileAdapter) load() (types.WorkspaceFile, error) {
	if a.loaded {
		return a.cached, nil
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return types.WorkspaceFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("workspace file not found").
			WithCause(err)
	}
	var workspace types.WorkspaceFile
	if err := yaml.Unmarshal(data, &workspace); err != nil {
		return types.WorkspaceFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse workspace yaml").
			WithCause(err)
	}
	a.cached = workspace
	a.loaded = true
	return workspace, nil
}

var _ ports.FacetPort = (*FacetFileAdapter)(nil)
