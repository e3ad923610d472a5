package policies

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ivybridge/internal/types"
)

func compareNumeric(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

var libC = types.ModuleID{Organisation: "org.demo", Module: "lib-c"}

func TestLatestRevisionKeepsNewer(t *testing.T) {
	policy := NewConflictPolicy(types.ConflictModeLatestRevision, compareNumeric)

	kept, eviction, err := policy.Choose(libC, "1.0.0", "2.0.0")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", kept)
	require.NotNil(t, eviction)
	assert.Equal(t, "1.0.0", eviction.Evicted)
	assert.Equal(t, "2.0.0", eviction.KeptBy)

	kept, eviction, err = policy.Choose(libC, "2.0.0", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", kept)
	require.NotNil(t, eviction)
	assert.Equal(t, "1.0.0", eviction.Evicted)
}

func TestFirstSightingIsNoConflict(t *testing.T) {
	policy := NewConflictPolicy(types.ConflictModeLatestRevision, compareNumeric)
	kept, eviction, err := policy.Choose(libC, "", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", kept)
	assert.Nil(t, eviction)

	kept, eviction, err = policy.Choose(libC, "1.0.0", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", kept)
	assert.Nil(t, eviction)
}

func TestStrictModeRefusesDisagreement(t *testing.T) {
	policy := NewConflictPolicy(types.ConflictModeStrict, compareNumeric)
	_, _, err := policy.Choose(libC, "1.0.0", "2.0.0")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestDefaultModeIsLatestRevision(t *testing.T) {
	policy := NewConflictPolicy("", compareNumeric)
	assert.Equal(t, types.ConflictModeLatestRevision, policy.Mode)
}
