package types

// ResolverConfig declares one resolver in a settings file. Kind
// determines which fields are meaningful: file resolvers use Root and
// the patterns, url resolvers use the patterns as absolute URLs, chain
// resolvers reference other resolvers by name.
type ResolverConfig struct {
	Name            string
	Kind            ResolverKind
	Root            string
	IvyPattern      string
	ArtifactPattern string
	Chain           []string
}

// TriggerConfig declares an event-driven trigger. Filter is a
// comma-separated list of attr=glob terms; an empty filter matches
// every event of the configured type.
type TriggerConfig struct {
	Name   string
	Event  EventType
	Filter string
}

// Settings is the parsed form of an ivysettings file.
type Settings struct {
	DefaultResolver string
	DefaultConflict ConflictMode
	CacheDir        string
	Resolvers       []ResolverConfig
	Triggers        []TriggerConfig
}

// Resolver returns the resolver config with the given name.
func (s Settings) Resolver(name string) (ResolverConfig, bool) {
	for _, resolver := range s.Resolvers {
		if resolver.Name == name {
			return resolver, true
		}
	}
	return ResolverConfig{}, false
}
