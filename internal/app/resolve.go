package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ivybridge/internal/adapters"
	"ivybridge/internal/core"
	"ivybridge/internal/types"
)

const defaultCacheDir = ".ivybridge/cache"

// Resolve runs a full resolution of the target's descriptor and
// writes the report, lock file, and classpath into the output
// directory.
func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	target, err := s.resolveTarget(req.Target)
	if err != nil {
		return ResolveResult{}, err
	}
	if target.Descriptor == "" {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("module %s has no ivy file configured", target.Module))
	}
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("an output directory is required")
	}

	settings, err := s.loadSettings(target.Settings)
	if err != nil {
		return ResolveResult{}, err
	}
	if err := core.NewSettingsCompiler().Validate(ctx, settings); err != nil {
		return ResolveResult{}, err
	}
	engine, err := s.buildEngine(target.Module, settings)
	if err != nil {
		return ResolveResult{}, err
	}

	descriptor, err := core.ParseDescriptor(target.Descriptor, engine, s.Parser)
	if err != nil {
		return ResolveResult{}, err
	}

	confs := req.Confs
	if len(confs) == 0 {
		confs = target.FacetConfs
	}
	outcome, err := core.NewDependencyResolver(engine).Resolve(ctx, descriptor, confs)
	if err != nil {
		return ResolveResult{}, err
	}
	if len(confs) == 0 {
		for _, conf := range descriptor.Configurations {
			if conf.Visibility != types.VisibilityPrivate {
				confs = append(confs, conf.Name)
			}
		}
	}

	cacheDir := strings.TrimSpace(req.CacheDir)
	if cacheDir == "" {
		cacheDir = settings.CacheDir
	}
	if cacheDir == "" {
		cacheDir = defaultCacheDir
	}
	cache := adapters.NewArtifactCacheAdapter(cacheDir)
	var classpath []string
	for _, artifact := range outcome.Artifacts {
		local, cached, err := cache.Ensure(ctx, artifact)
		if err != nil {
			return ResolveResult{}, err
		}
		if !cached {
			log.Ctx(ctx).Debug().Str("artifact", artifact.Name).Str("path", local).Msg("artifact cached")
		}
		classpath = append(classpath, local)
	}

	report := types.ResolveReport{
		Organisation:   descriptor.Info.Organisation,
		Module:         descriptor.Info.Module,
		Revision:       descriptor.Info.Revision,
		Configurations: confs,
		ResolvedAt:     s.Clock().UTC().Format(time.RFC3339),
		Dependencies:   outcome.Dependencies,
		Evictions:      outcome.Evictions,
		Artifacts:      outcome.Artifacts,
	}
	locks := make([]types.LockEntry, 0, len(outcome.Dependencies))
	for _, dep := range outcome.Dependencies {
		locks = append(locks, types.LockEntry{
			Organisation: dep.Organisation,
			Module:       dep.Module,
			Revision:     dep.Revision,
		})
	}
	sort.Strings(classpath)

	output := adapters.NewOutputFileAdapter(outputDir)
	if err := output.WriteResolveReport(report); err != nil {
		return ResolveResult{}, err
	}
	if err := output.WriteLock(locks); err != nil {
		return ResolveResult{}, err
	}
	if err := output.WriteClasspath(classpath); err != nil {
		return ResolveResult{}, err
	}

	log.Ctx(ctx).Info().
		Str("module", descriptor.Info.Module).
		Int("dependencies", len(outcome.Dependencies)).
		Int("evictions", len(outcome.Evictions)).
		Str("output", outputDir).
		Msg("resolve complete")
	return ResolveResult{
		Organisation:   descriptor.Info.Organisation,
		Module:         descriptor.Info.Module,
		Configurations: confs,
		Dependencies:   len(outcome.Dependencies),
		Evictions:      len(outcome.Evictions),
		OutputDir:      outputDir,
	}, nil
}
