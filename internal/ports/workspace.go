package ports

// WorkspacePort discovers ivy descriptor files under a workspace root,
// used to suggest facet entries for modules not yet configured.
type WorkspacePort interface {
	FindDescriptors(root string) ([]string, error)
}
