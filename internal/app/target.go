package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ivybridge/internal/adapters"
	"ivybridge/internal/core"
	"ivybridge/internal/types"
)

// resolvedTarget is a ModuleTarget with the facet indirection applied:
// paths are final, and FacetConfs carries the configurations the
// workspace file selects for the module, if any.
type resolvedTarget struct {
	Module     string
	Descriptor string
	Settings   string
	FacetConfs []string
}

func (s Service) resolveTarget(target ModuleTarget) (resolvedTarget, error) {
	module := strings.TrimSpace(target.Module)
	descriptor := strings.TrimSpace(target.Descriptor)
	settings := strings.TrimSpace(target.Settings)

	if module == "" && descriptor == "" {
		return resolvedTarget{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("either a module name or a descriptor path is required")
	}
	if module != "" && descriptor != "" {
		return resolvedTarget{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("module name and descriptor path are mutually exclusive")
	}

	if descriptor != "" {
		return resolvedTarget{
			Module:     moduleNameFromDescriptor(descriptor),
			Descriptor: descriptor,
			Settings:   settings,
		}, nil
	}

	workspaceFile := strings.TrimSpace(target.WorkspaceFile)
	if workspaceFile == "" {
		return resolvedTarget{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("a workspace file is required to look up module %s", module))
	}
	facets := adapters.NewFacetFileAdapter(workspaceFile)
	descriptorPath, err := facets.DescriptorPath(module)
	if err != nil {
		return resolvedTarget{}, err
	}
	resolved := resolvedTarget{Module: module, Descriptor: descriptorPath, Settings: settings}
	if resolved.Settings == "" {
		settingsPath, err := facets.SettingsPath(module)
		if err != nil {
			return resolvedTarget{}, err
		}
		resolved.Settings = settingsPath
	}
	for _, facet := range mustModules(facets) {
		if facet.Name == module {
			resolved.FacetConfs = facet.Configurations
		}
	}
	return resolved, nil
}

// mustModules reads the workspace records after DescriptorPath already
// proved the file loads; a second failure here cannot happen.
func mustModules(facets *adapters.FacetFileAdapter) []types.ModuleFacet {
	modules, err := facets.Modules()
	if err != nil {
		return nil
	}
	return modules
}

// loadSettings loads the settings file, or falls back to a minimal
// in-memory default when no path is configured.
func (s Service) loadSettings(path string) (types.Settings, error) {
	if path == "" {
		return types.Settings{DefaultConflict: types.ConflictModeLatestRevision}, nil
	}
	return s.SettingsLoader.Load(path)
}

// buildEngine wires resolvers from settings and runs the engine's
// post-configuration step.
func (s Service) buildEngine(module string, settings types.Settings) (*core.Engine, error) {
	resolvers, err := adapters.BuildResolvers(settings, s.Parser)
	if err != nil {
		return nil, err
	}
	return core.NewConfiguredEngine(module, settings, resolvers, s.Console)
}

func moduleNameFromDescriptor(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if name == "ivy" {
		if parent := filepath.Base(filepath.Dir(path)); parent != "." && parent != string(filepath.Separator) {
			return parent
		}
	}
	return name
}
