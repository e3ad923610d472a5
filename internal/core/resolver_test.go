package core

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ivybridge/internal/ports"
	"ivybridge/internal/types"
)

type fakeRepo struct {
	revisions map[string][]string
	modules   map[string]types.ResolvedModule
}

func (f *fakeRepo) Name() string { return "fake" }

func (f *fakeRepo) ListRevisions(ctx context.Context, id types.ModuleID) ([]string, error) {
	return f.revisions[id.String()], nil
}

func (f *fakeRepo) Fetch(ctx context.Context, id types.ModuleRevisionID) (types.ResolvedModule, error) {
	if resolved, ok := f.modules[id.String()]; ok {
		return resolved, nil
	}
	return types.ResolvedModule{}, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("module not found in repository fake: %s", id))
}

func defaultConf() types.Configuration {
	return types.Configuration{Name: "default", Visibility: types.VisibilityPublic, Transitive: true}
}

func moduleRevision(org, module, revision string) types.ModuleRevisionID {
	return types.ModuleRevisionID{
		ModuleID: types.ModuleID{Organisation: org, Module: module},
		Revision: revision,
	}
}

func publishedModule(id types.ModuleRevisionID, deps ...types.Dependency) types.ResolvedModule {
	return types.ResolvedModule{
		Revision: id,
		Descriptor: types.ModuleDescriptor{
			Info: types.ModuleInfo{
				Organisation: id.Organisation,
				Module:       id.Module,
				Revision:     id.Revision,
			},
			Configurations: []types.Configuration{defaultConf()},
			Dependencies:   deps,
		},
		HasIvyFile: true,
		Artifacts: []types.ArtifactRef{{
			ModuleRevision: id,
			Name:           id.Module,
			Type:           "jar",
			Ext:            "jar",
			URL:            fmt.Sprintf("file:///repo/%s-%s.jar", id.Module, id.Revision),
		}},
		Resolver: "fake",
	}
}

func conflictRepo() *fakeRepo {
	libA120 := moduleRevision("org.demo", "lib-a", "1.2.0")
	libB110 := moduleRevision("org.demo", "lib-b", "1.1.0")
	libC100 := moduleRevision("org.demo", "lib-c", "1.0.0")
	libC200 := moduleRevision("org.demo", "lib-c", "2.0.0")
	return &fakeRepo{
		revisions: map[string][]string{
			"org.demo#lib-b": {"1.0.0", "1.1.0"},
		},
		modules: map[string]types.ResolvedModule{
			libA120.String(): publishedModule(libA120, types.Dependency{
				Organisation: "org.demo", Module: "lib-c", Revision: "1.0.0",
				ConfMapping: map[string][]string{"default": {"default"}}, Transitive: true,
			}),
			libB110.String(): publishedModule(libB110, types.Dependency{
				Organisation: "org.demo", Module: "lib-c", Revision: "2.0.0",
				ConfMapping: map[string][]string{"default": {"default"}}, Transitive: true,
			}),
			libC100.String(): publishedModule(libC100),
			libC200.String(): publishedModule(libC200),
		},
	}
}

func appDescriptor() types.ModuleDescriptor {
	return types.ModuleDescriptor{
		Info: types.ModuleInfo{Organisation: "org.demo", Module: "app", Revision: "1.0.0"},
		Configurations: []types.Configuration{
			{Name: "compile", Visibility: types.VisibilityPublic, Transitive: true},
			{Name: "runtime", Visibility: types.VisibilityPublic, Extends: []string{"compile"}, Transitive: true},
		},
		Dependencies: []types.Dependency{
			{Organisation: "org.demo", Module: "lib-a", Revision: "1.2.0",
				ConfMapping: map[string][]string{"compile": {"default"}}, Transitive: true},
			{Organisation: "org.demo", Module: "lib-b", Revision: "[1.0.0,2.0.0)",
				ConfMapping: map[string][]string{"runtime": {"default"}}, Transitive: true},
		},
	}
}

func newResolverEngine(t *testing.T, mode types.ConflictMode, repo ports.Resolver) *Engine {
	t.Helper()
	settings := types.Settings{DefaultConflict: mode}
	engine, err := NewConfiguredEngine("app", settings, []ports.Resolver{repo}, &bytes.Buffer{})
	require.NoError(t, err)
	return engine
}

func TestResolveTransitiveWithEviction(t *testing.T) {
	engine := newResolverEngine(t, types.ConflictModeLatestRevision, conflictRepo())
	outcome, err := NewDependencyResolver(engine).Resolve(t.Context(), appDescriptor(), nil)
	require.NoError(t, err)

	byModule := map[string]types.ResolvedDependency{}
	for _, dep := range outcome.Dependencies {
		byModule[dep.Module] = dep
	}
	require.Len(t, byModule, 3)
	assert.Equal(t, "1.2.0", byModule["lib-a"].Revision)
	assert.Equal(t, "1.1.0", byModule["lib-b"].Revision)
	assert.Equal(t, "[1.0.0,2.0.0)", byModule["lib-b"].Requested)
	assert.Equal(t, "2.0.0", byModule["lib-c"].Revision)

	require.Len(t, outcome.Evictions, 1)
	wantEviction := types.EvictionRecord{
		Organisation: "org.demo",
		Module:       "lib-c",
		Evicted:      "1.0.0",
		KeptBy:       "2.0.0",
		Reason:       string(types.ConflictModeLatestRevision),
	}
	if diff := cmp.Diff(wantEviction, outcome.Evictions[0]); diff != "" {
		t.Fatalf("unexpected eviction record (-want +got):\n%s", diff)
	}

	var artifactURLs []string
	for _, artifact := range outcome.Artifacts {
		artifactURLs = append(artifactURLs, artifact.URL)
	}
	assert.Contains(t, artifactURLs, "file:///repo/lib-c-2.0.0.jar")
	assert.NotContains(t, artifactURLs, "file:///repo/lib-c-1.0.0.jar")
}

func TestResolveStrictConflictFails(t *testing.T) {
	engine := newResolverEngine(t, types.ConflictModeStrict, conflictRepo())
	_, err := NewDependencyResolver(engine).Resolve(t.Context(), appDescriptor(), nil)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "conflicting revisions")
}

func TestResolveUnknownConfiguration(t *testing.T) {
	engine := newResolverEngine(t, types.ConflictModeLatestRevision, conflictRepo())
	_, err := NewDependencyResolver(engine).Resolve(t.Context(), appDescriptor(), []string{"deploy"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestResolveSingleConfSkipsUnmappedDependencies(t *testing.T) {
	engine := newResolverEngine(t, types.ConflictModeLatestRevision, conflictRepo())
	outcome, err := NewDependencyResolver(engine).Resolve(t.Context(), appDescriptor(), []string{"compile"})
	require.NoError(t, err)

	modules := map[string]bool{}
	for _, dep := range outcome.Dependencies {
		modules[dep.Module] = true
	}
	// lib-b maps only from runtime, which compile does not extend
	assert.True(t, modules["lib-a"])
	assert.False(t, modules["lib-b"])
	assert.Equal(t, "1.0.0", findDependency(t, outcome, "lib-c").Revision)
}

func TestResolveHonorsExcludes(t *testing.T) {
	descriptor := appDescriptor()
	descriptor.Dependencies[0].Excludes = []types.DependencyExclude{
		{Organisation: "org.demo", Module: "lib-c"},
	}
	engine := newResolverEngine(t, types.ConflictModeLatestRevision, conflictRepo())
	outcome, err := NewDependencyResolver(engine).Resolve(t.Context(), descriptor, []string{"compile"})
	require.NoError(t, err)

	for _, dep := range outcome.Dependencies {
		assert.NotEqual(t, "lib-c", dep.Module)
	}
}

func TestResolveIntransitiveDependencyStopsDescent(t *testing.T) {
	descriptor := appDescriptor()
	descriptor.Dependencies[0].Transitive = false
	engine := newResolverEngine(t, types.ConflictModeLatestRevision, conflictRepo())
	outcome, err := NewDependencyResolver(engine).Resolve(t.Context(), descriptor, []string{"compile"})
	require.NoError(t, err)

	for _, dep := range outcome.Dependencies {
		assert.NotEqual(t, "lib-c", dep.Module)
	}
}

func TestResolveNoAvailableVersions(t *testing.T) {
	repo := &fakeRepo{}
	descriptor := types.ModuleDescriptor{
		Info:           types.ModuleInfo{Organisation: "org.demo", Module: "app", Revision: "1.0.0"},
		Configurations: []types.Configuration{defaultConf()},
		Dependencies: []types.Dependency{
			{Organisation: "org.demo", Module: "ghost", Revision: "latest.integration",
				ConfMapping: map[string][]string{"*": {"*"}}, Transitive: true},
		},
	}
	engine := newResolverEngine(t, types.ConflictModeLatestRevision, repo)
	_, err := NewDependencyResolver(engine).Resolve(t.Context(), descriptor, nil)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "no available versions")
}

func TestResolvePublishesLifecycleEvents(t *testing.T) {
	engine := newResolverEngine(t, types.ConflictModeLatestRevision, conflictRepo())
	listener := &recordingListener{name: "probe"}
	engine.Events.Subscribe(listener, Filter{})

	_, err := NewDependencyResolver(engine).Resolve(t.Context(), appDescriptor(), nil)
	require.NoError(t, err)

	counts := map[types.EventType]int{}
	for _, event := range listener.events {
		counts[event.Type]++
	}
	assert.Equal(t, 1, counts[types.EventPreResolve])
	assert.Equal(t, 1, counts[types.EventPostResolve])
	assert.Positive(t, counts[types.EventPreResolveDependency])
	assert.Equal(t, counts[types.EventPreResolveDependency], counts[types.EventPostResolveDepend])
}

func fanoutRepo() *fakeRepo {
	libX := moduleRevision("org.demo", "lib-x", "1.0.0")
	gridA := moduleRevision("org.demo", "grid-a", "1.0.0")
	gridB := moduleRevision("org.demo", "grid-b", "1.0.0")
	libXModule := publishedModule(libX)
	libXModule.Descriptor.Configurations = []types.Configuration{
		{Name: "c1", Visibility: types.VisibilityPublic, Transitive: true},
		{Name: "c2", Visibility: types.VisibilityPublic, Transitive: true},
	}
	libXModule.Descriptor.Dependencies = []types.Dependency{
		{Organisation: "org.demo", Module: "grid-a", Revision: "1.0.0",
			ConfMapping: map[string][]string{"c1": {"default"}}, Transitive: true},
		{Organisation: "org.demo", Module: "grid-b", Revision: "1.0.0",
			ConfMapping: map[string][]string{"c2": {"default"}}, Transitive: true},
	}
	return &fakeRepo{modules: map[string]types.ResolvedModule{
		libX.String():  libXModule,
		gridA.String(): publishedModule(gridA),
		gridB.String(): publishedModule(gridB),
	}}
}

func TestResolveDependencyOrderIsDeterministic(t *testing.T) {
	descriptor := types.ModuleDescriptor{
		Info: types.ModuleInfo{Organisation: "org.demo", Module: "app", Revision: "1.0.0"},
		Configurations: []types.Configuration{
			{Name: "compile", Visibility: types.VisibilityPublic, Transitive: true},
		},
		Dependencies: []types.Dependency{
			{Organisation: "org.demo", Module: "lib-x", Revision: "1.0.0",
				ConfMapping: map[string][]string{"compile": {"c1"}, "*": {"c2"}}, Transitive: true},
		},
	}

	// Both mapping keys match compile, so the dependency-side confs are
	// collected in key order: "*" before "compile".
	want := []string{"lib-x", "grid-b", "grid-a"}
	for i := 0; i < 25; i++ {
		engine := newResolverEngine(t, types.ConflictModeLatestRevision, fanoutRepo())
		outcome, err := NewDependencyResolver(engine).Resolve(t.Context(), descriptor, nil)
		require.NoError(t, err)

		var modules []string
		for _, dep := range outcome.Dependencies {
			modules = append(modules, dep.Module)
		}
		require.Equal(t, want, modules, "iteration %d", i)
	}
}

func TestResolveDeduplicatesEvictionRecords(t *testing.T) {
	// lib-c 1.0.0 loses twice: once as a direct dependency, once again
	// through lib-a's transitive dependency on it.
	descriptor := types.ModuleDescriptor{
		Info:           types.ModuleInfo{Organisation: "org.demo", Module: "app", Revision: "1.0.0"},
		Configurations: []types.Configuration{defaultConf()},
		Dependencies: []types.Dependency{
			{Organisation: "org.demo", Module: "lib-c", Revision: "2.0.0",
				ConfMapping: map[string][]string{"default": {"default"}}, Transitive: true},
			{Organisation: "org.demo", Module: "lib-a", Revision: "1.2.0",
				ConfMapping: map[string][]string{"default": {"default"}}, Transitive: true},
			{Organisation: "org.demo", Module: "lib-c", Revision: "1.0.0",
				ConfMapping: map[string][]string{"default": {"default"}}, Transitive: true},
		},
	}
	engine := newResolverEngine(t, types.ConflictModeLatestRevision, conflictRepo())
	outcome, err := NewDependencyResolver(engine).Resolve(t.Context(), descriptor, nil)
	require.NoError(t, err)

	require.Len(t, outcome.Evictions, 1)
	assert.Equal(t, "1.0.0", outcome.Evictions[0].Evicted)
	assert.Equal(t, "2.0.0", outcome.Evictions[0].KeptBy)
}

func findDependency(t *testing.T, outcome ResolveOutcome, module string) types.ResolvedDependency {
	t.Helper()
	for _, dep := range outcome.Dependencies {
		if dep.Module == module {
			return dep
		}
	}
	t.Fatalf("dependency %s not resolved", module)
	return types.ResolvedDependency{}
}
