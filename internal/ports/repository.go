package ports

import (
	"context"

	"ivybridge/internal/types"
)

// Resolver serves module revisions from one repository. ListRevisions
// enumerates published revisions for dynamic revision matching;
// resolvers that cannot enumerate (plain URL repositories) fail with a
// CodeUnimplemented error and are skipped for dynamic revisions.
type Resolver interface {
	Name() string
	ListRevisions(ctx context.Context, id types.ModuleID) ([]string, error)
	Fetch(ctx context.Context, id types.ModuleRevisionID) (types.ResolvedModule, error)
}

// EventPublisher is the subset of the engine event manager that
// event-capable resolvers publish through once bound.
type EventPublisher interface {
	Publish(event types.Event)
}

// EventAware marks resolvers that report download activity through an
// event manager after the engine binds them.
type EventAware interface {
	BindEvents(publisher EventPublisher)
}
