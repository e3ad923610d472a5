package adapters

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ivybridge/internal/ports"
	"ivybridge/internal/shared"
	"ivybridge/internal/types"
)

// FileRepository serves module revisions from a pattern-based local
// directory layout. It is event-capable: once bound to an event
// manager it reports artifact lookups as download events.
type FileRepository struct {
	name            string
	root            string
	ivyPattern      string
	artifactPattern string
	parser          ports.DescriptorParserPort
	events          ports.EventPublisher
}

func NewFileRepository(config types.ResolverConfig, parser ports.DescriptorParserPort) *FileRepository {
	return &FileRepository{
		name:            config.Name,
		root:            config.Root,
		ivyPattern:      config.IvyPattern,
		artifactPattern: config.ArtifactPattern,
		parser:          parser,
	}
}

func (r *FileRepository) Name() string { return r.name }

func (r *FileRepository) BindEvents(publisher ports.EventPublisher) {
	r.events = publisher
}

func (r *FileRepository) ListRevisions(ctx context.Context, id types.ModuleID) ([]string, error) {
	pattern, err := shared.TranslatePattern(r.ivyPattern, map[string]string{
		"organisation": id.Organisation,
		"module":       id.Module,
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("invalid ivy pattern").
			WithCause(err)
	}
	var revisions []string
	seen := map[string]bool{}
	err = filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		relative, err := filepath.Rel(r.root, path)
		if err != nil {
			return err
		}
		values, ok := pattern.Extract(filepath.ToSlash(relative))
		if !ok {
			return nil
		}
		if revision := values["revision"]; revision != "" && !seen[revision] {
			seen[revision] = true
			revisions = append(revisions, revision)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan repository").
			WithCause(err)
	}
	return revisions, nil
}

func (r *FileRepository) Fetch(ctx context.Context, id types.ModuleRevisionID) (types.ResolvedModule, error) {
	tokens := map[string]string{
		"organisation": id.Organisation,
		"module":       id.Module,
		"revision":     id.Revision,
	}
	ivyPath := filepath.Join(r.root, filepath.FromSlash(shared.SubstituteTokens(r.ivyPattern, tokens)))

	resolved := types.ResolvedModule{Revision: id, Resolver: r.name}
	if info, err := os.Stat(ivyPath); err == nil && !info.IsDir() {
		descriptor, err := r.parser.Parse(ivyPath)
		if err != nil {
			return types.ResolvedModule{}, err
		}
		resolved.Descriptor = descriptor
		resolved.HasIvyFile = true
	}

	artifacts := publishedArtifacts(resolved.Descriptor, id)
	for _, artifact := range artifacts {
		artifactTokens := map[string]string{
			"organisation": id.Organisation,
			"module":       id.Module,
			"revision":     id.Revision,
			"artifact":     artifact.Name,
			"type":         artifact.Type,
			"ext":          artifact.Ext,
		}
		path := filepath.Join(r.root, filepath.FromSlash(shared.SubstituteTokens(r.artifactPattern, artifactTokens)))
		r.publish(types.EventPreDownloadArtifact, id, artifact.Name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		absolute, err := filepath.Abs(path)
		if err != nil {
			absolute = path
		}
		resolved.Artifacts = append(resolved.Artifacts, types.ArtifactRef{
			ModuleRevision: id,
			Name:           artifact.Name,
			Type:           artifact.Type,
			Ext:            artifact.Ext,
			URL:            "file://" + filepath.ToSlash(absolute),
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

func (r *FileRepository) publish(eventType types.EventType, id types.ModuleRevisionID, artifact string) {
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

// publishedArtifacts returns the descriptor's publication list, or the
// conventional single jar named after the module when the descriptor
// is absent or declares no publications.
func publishedArtifacts(descriptor types.ModuleDescriptor, id types.ModuleRevisionID) []types.Artifact {
	if len(descriptor.Publications) > 0 {
		return descriptor.Publications
	}
	name := strings.TrimSpace(id.Module)
	return []types.Artifact{{Name: name, Type: "jar", Ext: "jar"}}
}

var _ ports.Resolver = (*FileRepository)(nil)
var _ ports.EventAware = (*FileRepository)(nil)
