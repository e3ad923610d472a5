package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ivybridge/internal/policies"
	"ivybridge/internal/types"
)

// DependencyResolver walks a descriptor's dependency graph through
// the engine's resolvers, applying the settings' conflict policy.
type DependencyResolver struct {
	engine   *Engine
	conflict policies.ConflictPolicy
}

func NewDependencyResolver(engine *Engine) DependencyResolver {
	return DependencyResolver{
		engine:   engine,
		conflict: policies.NewConflictPolicy(engine.Settings.DefaultConflict, CompareRevisions),
	}
}

type ResolveOutcome struct {
	Dependencies []types.ResolvedDependency
	Evictions    []types.EvictionRecord
	Artifacts    []types.ArtifactRef
}

type resolveItem struct {
	dep        types.Dependency
	masterConf string
	childConfs []string
	excludes   []types.DependencyExclude
}

type moduleState struct {
	revision  string
	requested string
	conf      string
	resolved  types.ResolvedModule
}

// Resolve resolves the requested configurations of the descriptor.
// An empty conf list means every public configuration.
func (r DependencyResolver) Resolve(ctx context.Context, descriptor types.ModuleDescriptor, confs []string) (ResolveOutcome, error) {
	if len(confs) == 0 {
		confs = publicConfs(descriptor)
	}
	for _, conf := range confs {
		if !descriptor.HasConfiguration(conf) {
			return ResolveOutcome{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unknown configuration: %s", conf))
		}
	}

	r.engine.Events.Publish(types.NewEvent(types.EventPreResolve, map[string]string{
		"organisation": descriptor.Info.Organisation,
		"module":       descriptor.Info.Module,
		"revision":     descriptor.Info.Revision,
		"confs":        strings.Join(confs, ","),
	}))

	var queue []resolveItem
	for _, conf := range confs {
		closure := confClosure(descriptor, conf)
		for _, dep := range descriptor.Dependencies {
			if targets := mappingTargets(dep.ConfMapping, closure); len(targets) > 0 {
				queue = append(queue, resolveItem{dep: dep, masterConf: conf, childConfs: targets})
			}
		}
	}

	outcome := ResolveOutcome{}
	states := map[types.ModuleID]*moduleState{}
	var order []types.ModuleID
	visited := map[types.ModuleRevisionID]bool{}
	evictionSeen := map[string]bool{}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if excluded(item.dep, item.excludes) {
			continue
		}
		id := item.dep.ID()

		r.engine.Events.Publish(types.NewEvent(types.EventPreResolveDependency, map[string]string{
			"organisation": id.Organisation,
			"module":       id.Module,
			"revision":     item.dep.Revision,
			"conf":         item.masterConf,
		}))

		revision, err := r.selectRevision(ctx, id, item.dep.Revision)
		if err != nil {
			return ResolveOutcome{}, err
		}

		state, known := states[id]
		if !known {
			state = &moduleState{requested: item.dep.Revision, conf: item.masterConf}
			states[id] = state
			order = append(order, id)
		}
		kept, eviction, err := r.conflict.Choose(id, state.revision, revision)
		if err != nil {
			return ResolveOutcome{}, err
		}
		if eviction != nil {
			// The same revision can lose a conflict once per path
			// requesting it; record it once.
			key := fmt.Sprintf("%s;%s", id, eviction.Evicted)
			if !evictionSeen[key] {
				evictionSeen[key] = true
				outcome.Evictions = append(outcome.Evictions, *eviction)
			}
		}
		if kept != state.revision {
			rid := types.ModuleRevisionID{ModuleID: id, Revision: kept}
			resolved, err := r.fetch(ctx, rid)
			if err != nil {
				return ResolveOutcome{}, err
			}
			state.revision = kept
			state.resolved = resolved
		}
		rid := types.ModuleRevisionID{ModuleID: id, Revision: state.revision}

		r.engine.Events.Publish(types.NewEvent(types.EventPostResolveDepend, map[string]string{
			"organisation": id.Organisation,
			"module":       id.Module,
			"revision":     state.revision,
			"conf":         item.masterConf,
			"resolver":     state.resolved.Resolver,
		}))

		if visited[rid] {
			continue
		}
		visited[rid] = true

		if !item.dep.Transitive || !state.resolved.HasIvyFile {
			continue
		}
		child := state.resolved.Descriptor
		excludes := append(append([]types.DependencyExclude(nil), item.excludes...), item.dep.Excludes...)
		for _, childConf := range expandChildConfs(child, item.childConfs) {
			closure := confClosure(child, childConf)
			for _, grandchild := range child.Dependencies {
				if targets := mappingTargets(grandchild.ConfMapping, closure); len(targets) > 0 {
					queue = append(queue, resolveItem{
						dep:        grandchild,
						masterConf: item.masterConf,
						childConfs: targets,
						excludes:   excludes,
					})
				}
			}
		}
	}

	for _, id := range order {
		state := states[id]
		outcome.Dependencies = append(outcome.Dependencies, types.ResolvedDependency{
			Organisation: id.Organisation,
			Module:       id.Module,
			Revision:     state.revision,
			Requested:    state.requested,
			Conf:         state.conf,
			Resolver:     state.resolved.Resolver,
		})
		outcome.Artifacts = append(outcome.Artifacts, state.resolved.Artifacts...)
	}

	r.engine.Events.Publish(types.NewEvent(types.EventPostResolve, map[string]string{
		"organisation": descriptor.Info.Organisation,
		"module":       descriptor.Info.Module,
		"revision":     descriptor.Info.Revision,
		"confs":        strings.Join(confs, ","),
		"modules":      fmt.Sprintf("%d", len(outcome.Dependencies)),
	}))
	return outcome, nil
}

func (r DependencyResolver) selectRevision(ctx context.Context, id types.ModuleID, constraint string) (string, error) {
	if !IsDynamic(constraint) {
		return constraint, nil
	}
	var candidates []string
	seen := map[string]bool{}
	for _, resolver := range r.engine.Resolvers {
		revisions, err := resolver.ListRevisions(ctx, id)
		if err != nil {
			if errbuilder.CodeOf(err) == errbuilder.CodeUnimplemented {
				continue
			}
			return "", err
		}
		for _, revision := range revisions {
			if !seen[revision] {
				seen[revision] = true
				candidates = append(candidates, revision)
			}
		}
	}
	if len(candidates) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no available versions for %s", id))
	}
	return SelectRevision(constraint, candidates)
}

func (r DependencyResolver) fetch(ctx context.Context, id types.ModuleRevisionID) (types.ResolvedModule, error) {
	for _, resolver := range r.engine.Resolvers {
		resolved, err := resolver.Fetch(ctx, id)
		if err != nil {
			if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
				continue
			}
			return types.ResolvedModule{}, err
		}
		return resolved, nil
	}
	return types.ResolvedModule{}, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("no available versions for %s", id))
}

func publicConfs(descriptor types.ModuleDescriptor) []string {
	var confs []string
	for _, conf := range descriptor.Configurations {
		if conf.Visibility != types.VisibilityPrivate {
			confs = append(confs, conf.Name)
		}
	}
	return confs
}

// confClosure returns conf plus everything it extends, transitively.
func confClosure(descriptor types.ModuleDescriptor, conf string) map[string]bool {
	closure := map[string]bool{}
	var walk func(name string)
	walk = func(name string) {
		if closure[name] {
			return
		}
		closure[name] = true
		for _, declared := range descriptor.Configurations {
			if declared.Name == name {
				for _, parent := range declared.Extends {
					walk(parent)
				}
			}
		}
	}
	walk(conf)
	return closure
}

// mappingTargets collects the dependency-side configurations mapped
// from any master configuration in the closure, honoring the "*" key.
func mappingTargets(mapping map[string][]string, closure map[string]bool) []string {
	var targets []string
	seen := map[string]bool{}
	add := func(values []string) {
		for _, value := range values {
			if !seen[value] {
				seen[value] = true
				targets = append(targets, value)
			}
		}
	}
	masters := make([]string, 0, len(mapping))
	for master := range mapping {
		masters = append(masters, master)
	}
	sort.Strings(masters)
	for _, master := range masters {
		if master == "*" || closure[master] {
			add(mapping[master])
		}
	}
	return targets
}

// expandChildConfs maps requested dependency-side confs onto the
// child's declared configurations; "*" selects every public one, and
// confs the child does not declare are dropped.
func expandChildConfs(child types.ModuleDescriptor, requested []string) []string {
	var confs []string
	seen := map[string]bool{}
	for _, conf := range requested {
		if conf == "*" {
			for _, name := range publicConfs(child) {
				if !seen[name] {
					seen[name] = true
					confs = append(confs, name)
				}
			}
			continue
		}
		if child.HasConfiguration(conf) && !seen[conf] {
			seen[conf] = true
			confs = append(confs, conf)
		}
	}
	return confs
}

func excluded(dep types.Dependency, excludes []types.DependencyExclude) bool {
	for _, exclude := range excludes {
		if matchExcludeToken(exclude.Organisation, dep.Organisation) &&
			matchExcludeToken(exclude.Module, dep.Module) {
			return true
		}
	}
	return false
}

func matchExcludeToken(token string, value string) bool {
	return token == "" || token == "*" || token == value
}
