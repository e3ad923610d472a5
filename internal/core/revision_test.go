package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDynamic(t *testing.T) {
	assert.True(t, IsDynamic("latest.integration"))
	assert.True(t, IsDynamic("latest.release"))
	assert.True(t, IsDynamic("1.2.+"))
	assert.True(t, IsDynamic("[1.0,2.0)"))
	assert.True(t, IsDynamic("(,1.5]"))
	assert.False(t, IsDynamic("1.2.0"))
	assert.False(t, IsDynamic("1.0-rc1"))
}

func TestSelectRevisionLatestIntegration(t *testing.T) {
	selected, err := SelectRevision("latest.integration", []string{"1.0.0", "2.0.0-beta1", "1.2.0"})
	require.NoError(t, err)
	assert.Equal(t, "2.0.0-beta1", selected)
}

func TestSelectRevisionLatestReleaseSkipsPrereleases(t *testing.T) {
	selected, err := SelectRevision("latest.release", []string{"1.0.0", "2.0.0-beta1", "1.2.0"})
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", selected)
}

func TestSelectRevisionPrefix(t *testing.T) {
	selected, err := SelectRevision("1.2.+", []string{"1.1.0", "1.2.0", "1.2.5", "2.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "1.2.5", selected)
}

func TestSelectRevisionRange(t *testing.T) {
	tests := []struct {
		constraint string
		expected   string
	}{
		{"[1.0.0,2.0.0)", "1.2.0"},
		{"[1.0.0,1.2.0]", "1.2.0"},
		{"[1.0.0,1.2.0)", "1.1.0"},
		{"(,1.1.0]", "1.1.0"},
		{"[1.2.0,)", "2.0.0"},
	}
	candidates := []string{"1.0.0", "1.1.0", "1.2.0", "2.0.0"}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			selected, err := SelectRevision(tt.constraint, candidates)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, selected)
		})
	}
}

func TestSelectRevisionNoMatch(t *testing.T) {
	_, err := SelectRevision("[3.0.0,4.0.0)", []string{"1.0.0", "2.0.0"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "no compatible revision")
}

func TestSelectRevisionExact(t *testing.T) {
	selected, err := SelectRevision("1.1.0", []string{"1.0.0", "1.1.0"})
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", selected)

	_, err = SelectRevision("9.9.9", []string{"1.0.0"})
	require.Error(t, err)
}

func TestCompareRevisions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.2.0", "1.10.0", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.0-rc1", "1.0", -1},
		{"1.0-beta2", "1.0-rc1", -1},
		{"1.0.0.dev1", "1.0.0.alpha1", -1},
		{"1.0.0.snapshot", "1.0.0", -1},
		{"1.0.1", "1.0", 1},
		{"1.0a", "1.0.1", -1},
	}
	for _, tt := range tests {
		got := CompareRevisions(tt.a, tt.b)
		switch {
		case tt.want < 0:
			assert.Negative(t, got, "%s vs %s", tt.a, tt.b)
		case tt.want > 0:
			assert.Positive(t, got, "%s vs %s", tt.a, tt.b)
		default:
			assert.Zero(t, got, "%s vs %s", tt.a, tt.b)
		}
	}
}
