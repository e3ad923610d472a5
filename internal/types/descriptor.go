package types

// ModuleID identifies a module independent of any particular revision.
type ModuleID struct {
	Organisation string
	Module       string
}

func (m ModuleID) String() string {
	return m.Organisation + "#" + m.Module
}

// ModuleRevisionID pins a module to one published revision.
type ModuleRevisionID struct {
	ModuleID
	Revision string
}

func (m ModuleRevisionID) String() string {
	return m.ModuleID.String() + ";" + m.Revision
}

// ModuleInfo mirrors the <info> element of an ivy descriptor.
type ModuleInfo struct {
	Organisation string
	Module       string
	Revision     string
	Status       string
	Publication  string
}

func (i ModuleInfo) RevisionID() ModuleRevisionID {
	return ModuleRevisionID{
		ModuleID: ModuleID{Organisation: i.Organisation, Module: i.Module},
		Revision: i.Revision,
	}
}

// Configuration is a named dependency scope declared in a descriptor.
// Names are compared case-insensitively when building configuration sets.
type Configuration struct {
	Name        string
	Visibility  Visibility
	Description string
	Extends     []string
	Transitive  bool
	Deprecated  string
}

// DependencyExclude blocks an organisation/module pair from the
// transitive closure of one dependency.
type DependencyExclude struct {
	Organisation string
	Module       string
}

// Dependency is a single <dependency> declaration. ConfMapping maps a
// master configuration to the configurations requested from the
// dependency, e.g. {"compile": ["default"]}.
type Dependency struct {
	Organisation string
	Module       string
	Revision     string
	ConfMapping  map[string][]string
	Transitive   bool
	Excludes     []DependencyExclude
}

func (d Dependency) ID() ModuleID {
	return ModuleID{Organisation: d.Organisation, Module: d.Module}
}

// Artifact is a published artifact declaration.
type Artifact struct {
	Name  string
	Type  string
	Ext   string
	Confs []string
}

// ModuleDescriptor is the parsed, in-memory form of an ivy.xml file.
type ModuleDescriptor struct {
	Info           ModuleInfo
	Configurations []Configuration
	Dependencies   []Dependency
	Publications   []Artifact
}

// ConfigurationNames returns declared configuration names in
// declaration order.
func (d ModuleDescriptor) ConfigurationNames() []string {
	names := make([]string, 0, len(d.Configurations))
	for _, conf := range d.Configurations {
		names = append(names, conf.Name)
	}
	return names
}

// HasConfiguration reports whether the descriptor declares the named
// configuration (exact match).
func (d ModuleDescriptor) HasConfiguration(name string) bool {
	for _, conf := range d.Configurations {
		if conf.Name == name {
			return true
		}
	}
	return false
}
