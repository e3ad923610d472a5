package policies

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ivybridge/internal/types"
)

// ConflictPolicy decides which revision survives when two dependency
// paths request different revisions of the same module. The compare
// function supplies revision ordering so the policy stays independent
// of the revision grammar.
type ConflictPolicy struct {
	Mode    types.ConflictMode
	Compare func(a, b string) int
}

func NewConflictPolicy(mode types.ConflictMode, compare func(a, b string) int) ConflictPolicy {
	if mode == "" {
		mode = types.ConflictModeLatestRevision
	}
	return ConflictPolicy{Mode: mode, Compare: compare}
}

// Choose returns the revision to keep and, when one side loses, an
// eviction record explaining the outcome. Strict mode refuses any
// disagreement.
func (p ConflictPolicy) Choose(id types.ModuleID, current string, candidate string) (string, *types.EvictionRecord, error) {
	if current == "" || current == candidate {
		return candidate, nil, nil
	}
	switch p.Mode {
	case types.ConflictModeStrict:
		return "", nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("conflicting revisions for %s: %s vs %s", id, current, candidate))
	case types.ConflictModeLatestRevision:
		kept, evicted := current, candidate
		if p.Compare(candidate, current) > 0 {
			kept, evicted = candidate, current
		}
		record := &types.EvictionRecord{
			Organisation: id.Organisation,
			Module:       id.Module,
			Evicted:      evicted,
			KeptBy:       kept,
			Reason:       string(types.ConflictModeLatestRevision),
		}
		return kept, record, nil
	default:
		return "", nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown conflict mode: %s", p.Mode))
	}
}
