package core

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ivybridge/internal/types"
)

// SettingsCompiler validates a parsed settings file before an engine
// is built from it.
type SettingsCompiler struct{}

var validEventTypes = map[types.EventType]struct{}{
	types.EventPreResolve:           {},
	types.EventPostResolve:          {},
	types.EventPreResolveDependency: {},
	types.EventPostResolveDepend:    {},
	types.EventPreDownloadArtifact:  {},
	types.EventPostDownloadArtifact: {},
}

var validConflictModes = map[types.ConflictMode]struct{}{
	types.ConflictModeLatestRevision: {},
	types.ConflictModeStrict:         {},
}

func NewSettingsCompiler() SettingsCompiler {
	return SettingsCompiler{}
}

func (c SettingsCompiler) Validate(ctx context.Context, settings types.Settings) error {
	if len(settings.Resolvers) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("settings must declare at least one resolver")
	}
	if _, ok := validConflictModes[settings.DefaultConflict]; !ok && settings.DefaultConflict != "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown conflict manager: %s", settings.DefaultConflict))
	}

	declared := map[string]types.ResolverKind{}
	for _, resolver := range settings.Resolvers {
		assert.NotEmpty(ctx, resolver.Name, "resolver name must be set")
		if _, exists := declared[resolver.Name]; exists {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("duplicate resolver name: %s", resolver.Name))
		}
		if err := validateResolver(resolver, declared); err != nil {
			return err
		}
		declared[resolver.Name] = resolver.Kind
	}

	if settings.DefaultResolver != "" {
		if _, ok := declared[settings.DefaultResolver]; !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("default resolver not declared: %s", settings.DefaultResolver))
		}
	}

	for _, trigger := range settings.Triggers {
		assert.NotEmpty(ctx, trigger.Name, "trigger name must be set")
		if _, ok := validEventTypes[trigger.Event]; !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("trigger %s has unknown event: %s", trigger.Name, trigger.Event))
		}
		if _, err := ParseFilter(trigger.Event, trigger.Filter); err != nil {
			return err
		}
	}
	log.Ctx(ctx).Debug().Int("resolvers", len(settings.Resolvers)).
		Int("triggers", len(settings.Triggers)).Msg("settings validated")
	return nil
}

func validateResolver(resolver types.ResolverConfig, declared map[string]types.ResolverKind) error {
	switch resolver.Kind {
	case types.ResolverKindFile:
		if resolver.Root == "" || resolver.IvyPattern == "" || resolver.ArtifactPattern == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("file resolver %s requires root, ivy pattern, and artifact pattern", resolver.Name))
		}
	case types.ResolverKindURL:
		for _, pattern := range []string{resolver.IvyPattern, resolver.ArtifactPattern} {
			if !strings.HasPrefix(pattern, "http://") && !strings.HasPrefix(pattern, "https://") {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("url resolver %s requires absolute http(s) patterns", resolver.Name))
			}
		}
	case types.ResolverKindChain:
		if len(resolver.Chain) == 0 {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("chain resolver %s has no delegates", resolver.Name))
		}
		for _, ref := range resolver.Chain {
			kind, ok := declared[ref]
			if !ok {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("chain %s references undeclared resolver %s", resolver.Name, ref))
			}
			if kind == types.ResolverKindChain {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("chain %s may not nest chain %s", resolver.Name, ref))
			}
		}
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("resolver %s has unknown kind: %s", resolver.Name, resolver.Kind))
	}
	return nil
}
