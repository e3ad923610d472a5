package ports

import (
	"context"

	"ivybridge/internal/types"
)

// ArtifactCachePort materializes remote artifacts into the local
// cache. Ensure returns the local path and whether the artifact was
// already cached; file:// origins are used in place.
type ArtifactCachePort interface {
	Ensure(ctx context.Context, ref types.ArtifactRef) (string, bool, error)
}
