package types

// ArtifactRef locates one artifact at its origin. URL uses the file://
// scheme for local repositories and http(s):// for remote ones.
type ArtifactRef struct {
	ModuleRevision ModuleRevisionID `yaml:"-"`
	Name           string           `yaml:"name"`
	Type           string           `yaml:"type"`
	Ext            string           `yaml:"ext"`
	URL            string           `yaml:"url"`
}

// ResolvedModule is one module revision as served by a resolver.
type ResolvedModule struct {
	Revision   ModuleRevisionID
	Descriptor ModuleDescriptor
	HasIvyFile bool
	Artifacts  []ArtifactRef
	Resolver   string
}

// ResolvedDependency is one entry of a resolve report.
type ResolvedDependency struct {
	Organisation string `yaml:"organisation"`
	Module       string `yaml:"module"`
	Revision     string `yaml:"revision"`
	Requested    string `yaml:"requested,omitempty"`
	Conf         string `yaml:"conf"`
	Resolver     string `yaml:"resolver,omitempty"`
}

// EvictionRecord explains why a candidate revision was not kept.
type EvictionRecord struct {
	Organisation string `yaml:"organisation"`
	Module       string `yaml:"module"`
	Evicted      string `yaml:"evicted"`
	KeptBy       string `yaml:"kept_by"`
	Reason       string `yaml:"reason"`
}

// LockEntry pins one module to the revision chosen by a resolve run.
type LockEntry struct {
	Organisation string
	Module       string
	Revision     string
}

// ResolveReport is the full outcome of one resolve run, serialized to
// YAML in the output directory.
type ResolveReport struct {
	Organisation   string               `yaml:"organisation"`
	Module         string               `yaml:"module"`
	Revision       string               `yaml:"revision"`
	Configurations []string             `yaml:"configurations"`
	ResolvedAt     string               `yaml:"resolved_at"`
	Dependencies   []ResolvedDependency `yaml:"dependencies"`
	Evictions      []EvictionRecord     `yaml:"evictions,omitempty"`
	Artifacts      []ArtifactRef        `yaml:"artifacts"`
}
