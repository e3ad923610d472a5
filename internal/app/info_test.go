package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoSampleDescriptor(t *testing.T) {
	service := newTestService()
	result, err := service.Info(t.Context(), InfoRequest{
		Target: ModuleTarget{Descriptor: "../../fixtures/ivy-sample.xml"},
	})
	require.NoError(t, err)

	assert.Equal(t, "org.demo", result.Organisation)
	assert.Equal(t, "app-core", result.Module)
	assert.Equal(t, "integration", result.Status)

	require.Len(t, result.Configurations, 3)
	assert.Equal(t, "compile", result.Configurations[0].Name)

	require.Len(t, result.Dependencies, 2)
	assert.Equal(t, "lib-a", result.Dependencies[0].Module)
	assert.True(t, result.Dependencies[0].Transitive)

	require.Len(t, result.Publications, 1)
	assert.Equal(t, "app-core", result.Publications[0].Name)
	assert.Equal(t, "jar", result.Publications[0].Ext)
}
