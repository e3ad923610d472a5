package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ivybridge/internal/ports"
	"ivybridge/internal/shared"
	"ivybridge/internal/types"
)

const defaultArtifactFetchTimeout = 60 * time.Second

// ArtifactCacheAdapter materializes artifacts under a local cache
// directory, laid out as organisation/module/revision/name-revision.ext.
// file:// origins are used in place without copying.
type ArtifactCacheAdapter struct {
	Dir    string
	client *http.Client
}

func NewArtifactCacheAdapter(dir string) *ArtifactCacheAdapter {
	return &ArtifactCacheAdapter{
		Dir:    dir,
		client: &http.Client{Timeout: defaultArtifactFetchTimeout},
	}
}

func (a *ArtifactCacheAdapter) Ensure(ctx context.Context, ref types.ArtifactRef) (string, bool, error) {
	origin, err := url.Parse(ref.URL)
	if err != nil {
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid artifact origin url").
			WithCause(err)
	}
	if origin.Scheme == "file" || origin.Scheme == "" {
		return filepath.FromSlash(origin.Path), true, nil
	}

	id := ref.ModuleRevision
	target := filepath.Join(a.Dir, id.Organisation, id.Module, id.Revision,
		fmt.Sprintf("%s-%s.%s", ref.Name, id.Revision, ref.Ext))
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		log.Ctx(ctx).Debug().Str("artifact", ref.Name).Str("path", target).Msg("artifact cache hit")
		return target, true, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create artifact cache directory").
			WithCause(err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid artifact origin url").
			WithCause(err)
	}
	response, err := a.client.Do(request)
	if err != nil {
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to download artifact").
			WithCause(err)
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to download artifact").
			WithCause(shared.HTTPStatusError(response.StatusCode, ref.URL))
	}

	// download to a temp name first so a partial fetch never looks
	// like a cached artifact
	staging, err := os.CreateTemp(filepath.Dir(target), ".fetch-*")
	if err != nil {
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stage artifact download").
			WithCause(err)
	}
	if _, err := io.Copy(staging, response.Body); err != nil {
		staging.Close()
		os.Remove(staging.Name())
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to download artifact").
			WithCause(err)
	}
	if err := staging.Close(); err != nil {
		os.Remove(staging.Name())
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to download artifact").
			WithCause(err)
	}
	if err := os.Rename(staging.Name(), target); err != nil {
		os.Remove(staging.Name())
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to place artifact in cache").
			WithCause(err)
	}
	log.Ctx(ctx).Info().Str("artifact", ref.Name).Str("path", target).Msg("artifact downloaded")
	return target, false, nil
}

var _ ports.ArtifactCachePort = (*ArtifactCacheAdapter)(nil)
