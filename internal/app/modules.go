package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ivybridge/internal/adapters"
)

// Modules lists the facet records in the workspace file and, when
// discover roots are given, descriptor files found on disk that no
// facet references yet.
func (s Service) Modules(ctx context.Context, req ModulesRequest) (ModulesResult, error) {
	workspaceFile := strings.TrimSpace(req.WorkspaceFile)
	if workspaceFile == "" {
		return ModulesResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("a workspace file is required")
	}
	facets := adapters.NewFacetFileAdapter(workspaceFile)
	modules, err := facets.Modules()
	if err != nil {
		return ModulesResult{}, err
	}

	result := ModulesResult{}
	referenced := map[string]bool{}
	for _, facet := range modules {
		result.Modules = append(result.Modules, ModuleSummary{
			Name:           facet.Name,
			Descriptor:     facet.Descriptor,
			Settings:       facet.Settings,
			Configurations: facet.Configurations,
		})
		if facet.Descriptor != "" {
			referenced[facet.Descriptor] = true
		}
	}

	for _, root := range req.DiscoverRoots {
		found, err := s.Workspace.FindDescriptors(root)
		if err != nil {
			return ModulesResult{}, err
		}
		for _, path := range found {
			if !referenced[path] {
				result.Discovered = append(result.Discovered, path)
			}
		}
	}
	log.Ctx(ctx).Debug().
		Int("modules", len(result.Modules)).
		Int("discovered", len(result.Discovered)).
		Msg("workspace listed")
	return result, nil
}
