package ports

import "ivybridge/internal/types"

type OutputPort interface {
	WriteResolveReport(report types.ResolveReport) error
	WriteLock(entries []types.LockEntry) error
	WriteClasspath(paths []string) error
}
