package ports

import "ivybridge/internal/types"

// DescriptorParserPort parses an ivy descriptor file into its
// structured form. Parse stats the path to key its modification-time
// cache; a missing file surfaces as a coded not-found error.
type DescriptorParserPort interface {
	Parse(path string) (types.ModuleDescriptor, error)
}

// SettingsPort loads an ivysettings file.
type SettingsPort interface {
	Load(path string) (types.Settings, error)
}
