package adapters

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ivybridge/internal/ports"
	"ivybridge/internal/types"
)

// ChainResolver delegates to an ordered list of resolvers. Fetch
// returns the first hit; ListRevisions unions the delegates, skipping
// ones that cannot enumerate.
type ChainResolver struct {
	name      string
	delegates []ports.Resolver
}

func NewChainResolver(name string, delegates []ports.Resolver) *ChainResolver {
	return &ChainResolver{name: name, delegates: delegates}
}

func (r *ChainResolver) Name() string { return r.name }

// BindEvents forwards the publisher to every event-capable delegate.
func (r *ChainResolver) BindEvents(publisher ports.EventPublisher) {
	for _, delegate := range r.delegates {
		if aware, ok := delegate.(ports.EventAware); ok {
			aware.BindEvents(publisher)
		}
	}
}

func (r *ChainResolver) ListRevisions(ctx context.Context, id types.ModuleID) ([]string, error) {
	var revisions []string
	seen := map[string]bool{}
	for _, delegate := range r.delegates {
		found, err := delegate.ListRevisions(ctx, id)
		if err != nil {
			if errbuilder.CodeOf(err) == errbuilder.CodeUnimplemented {
				continue
			}
			return nil, err
		}
		for _, revision := range found {
			if !seen[revision] {
				seen[revision] = true
				revisions = append(revisions, revision)
			}
		}
	}
	return revisions, nil
}

func (r *ChainResolver) Fetch(ctx context.Context, id types.ModuleRevisionID) (types.ResolvedModule, error) {
	for _, delegate := range r.delegates {
		resolved, err := delegate.Fetch(ctx, id)
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
		WithMsg(fmt.Sprintf("module not found in chain %s: %s", r.name, id))
}

var _ ports.Resolver = (*ChainResolver)(nil)
var _ ports.EventAware = (*ChainResolver)(nil)
