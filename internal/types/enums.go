package types

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type ResolverKind string

const (
	ResolverKindFile  ResolverKind = "file"
	ResolverKindURL   ResolverKind = "url"
	ResolverKindChain ResolverKind = "chain"
)

type ConflictMode string

const (
	ConflictModeLatestRevision ConflictMode = "latest-revision"
	ConflictModeStrict         ConflictMode = "strict"
)

type EventType string

const (
	EventPreResolve           EventType = "pre-resolve"
	EventPostResolve          EventType = "post-resolve"
	EventPreResolveDependency EventType = "pre-resolve-dependency"
	EventPostResolveDepend    EventType = "post-resolve-dependency"
	EventPreDownloadArtifact  EventType = "pre-download-artifact"
	EventPostDownloadArtifact EventType = "post-download-artifact"
)
