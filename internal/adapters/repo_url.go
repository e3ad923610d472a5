package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ivybridge/internal/ports"
	"ivybridge/internal/shared"
	"ivybridge/internal/types"
)

const defaultURLRepoTimeout = 30 * time.Second

// URLRepository serves module revisions over HTTP using absolute URL
// patterns. Plain HTTP servers cannot enumerate directories, so only
// exact revisions are supported; ListRevisions reports Unimplemented
// and the resolver core skips this repository for dynamic revisions.
type URLRepository struct {
	name            string
	ivyPattern      string
	artifactPattern string
	parser          ports.DescriptorParserPort
	client          *http.Client
	events          ports.EventPublisher
}

func NewURLRepository(config types.ResolverConfig, parser ports.DescriptorParserPort) *URLRepository {
	return &URLRepository{
		name:            config.Name,
		ivyPattern:      config.IvyPattern,
		artifactPattern: config.ArtifactPattern,
		parser:          parser,
		client:          &http.Client{Timeout: defaultURLRepoTimeout},
	}
}

func (r *URLRepository) Name() string { return r.name }

func (r *URLRepository) BindEvents(publisher ports.EventPublisher) {
	r.events = publisher
}

func (r *URLRepository) ListRevisions(ctx context.Context, id types.ModuleID) ([]string, error) {
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeUnimplemented).
		WithMsg(fmt.Sprintf("url repository %s cannot list revisions", r.name))
}

func (r *URLRepository) Fetch(ctx context.Context, id types.ModuleRevisionID) (types.ResolvedModule, error) {
	tokens := map[string]string{
		"organisation": id.Organisation,
		"module":       id.Module,
		"revision":     id.Revision,
	}
	resolved := types.ResolvedModule{Revision: id, Resolver: r.name}

	ivyURL := shared.SubstituteTokens(r.ivyPattern, tokens)
	descriptor, found, err := r.fetchDescriptor(ctx, ivyURL)
	if err != nil {
		return types.ResolvedModule{}, err
	}
	if found {
		resolved.Descriptor = descriptor
		resolved.HasIvyFile = true
	}

	for _, artifact := range publishedArtifacts(resolved.Descriptor, id) {
		artifactTokens := map[string]string{
			"organisation": id.Organisation,
			"module":       id.Module,
			"revision":     id.Revision,
			"artifact":     artifact.Name,
			"type":         artifact.Type,
			"ext":          artifact.Ext,
		}
		artifactURL := shared.SubstituteTokens(r.artifactPattern, artifactTokens)
		r.publish(types.EventPreDownloadArtifact, id, artifact.Name)
		exists, err := r.exists(ctx, artifactURL)
		if err != nil {
			return types.ResolvedModule{}, err
		}
		if !exists {
			continue
		}
		resolved.Artifacts = append(resolved.Artifacts, types.ArtifactRef{
			ModuleRevision: id,
			Name:           artifact.Name,
			Type:           artifact.Type,
			Ext:            artifact.Ext,
			URL:            artifactURL,
		})
		r.publish(types.EventPostDownloadArtifact, id, artifact.Name)
	}

	if !resolved.HasIvyFile && len(resolved.Artifacts) == 0 {
		return types.ResolvedModule{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("module not found in repository %s: %s", r.name, id))
	}
	return resolved, nil
}

// fetchDescriptor downloads the ivy file to a temp path and runs it
// through the shared descriptor parser, so URL repositories get the
// same syntax/semantic error classification as local ones.
func (r *URLRepository) fetchDescriptor(ctx context.Context, url string) (types.ModuleDescriptor, bool, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.ModuleDescriptor{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid ivy url").
			WithCause(err)
	}
	response, err := r.client.Do(request)
	if err != nil {
		return types.ModuleDescriptor{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to fetch ivy descriptor").
			WithCause(err)
	}
	defer response.Body.Close()
	if response.StatusCode == http.StatusNotFound {
		return types.ModuleDescriptor{}, false, nil
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return types.ModuleDescriptor{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to fetch ivy descriptor").
			WithCause(shared.HTTPStatusError(response.StatusCode, url))
	}

	temp, err := os.CreateTemp("", "ivybridge-descriptor-*.xml")
	if err != nil {
		return types.ModuleDescriptor{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stage ivy descriptor").
			WithCause(err)
	}
	defer os.Remove(temp.Name())
	if _, err := io.Copy(temp, response.Body); err != nil {
		temp.Close()
		return types.ModuleDescriptor{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stage ivy descriptor").
			WithCause(err)
	}
	if err := temp.Close(); err != nil {
		return types.ModuleDescriptor{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stage ivy descriptor").
			WithCause(err)
	}
	descriptor, err := r.parser.Parse(temp.Name())
	if err != nil {
		return types.ModuleDescriptor{}, false, err
	}
	return descriptor, true, nil
}

func (r *URLRepository) exists(ctx context.Context, url string) (bool, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid artifact url").
			WithCause(err)
	}
	response, err := r.client.Do(request)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to probe artifact url").
			WithCause(err)
	}
	defer response.Body.Close()
	return response.StatusCode >= 200 && response.StatusCode <= 299, nil
}

func (r *URLRepository) publish(eventType types.EventType, id types.ModuleRevisionID, artifact string) {
	if r.events == nil {
		return
	}
	r.events.Publish(types.NewEvent(eventType, map[string]string{
		"organisation": id.Organisation,
		"module":       id.Module,
		"revision":     id.Revision,
		"artifact":     artifact,
		"resolver":     r.name,
	}))
}

var _ ports.Resolver = (*URLRepository)(nil)
var _ ports.EventAware = (*URLRepository)(nil)
