package core

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ivybridge/internal/adapters"
	"ivybridge/internal/types"
)

func newTestEngine(t *testing.T) (*Engine, *bytes.Buffer) {
	t.Helper()
	console := &bytes.Buffer{}
	engine, err := NewConfiguredEngine("test-module", types.Settings{}, nil, console)
	require.NoError(t, err)
	return engine, console
}

func TestLoadConfigurationsSortsAndDeduplicates(t *testing.T) {
	engine, _ := newTestEngine(t)
	confs, err := LoadConfigurations("../../fixtures/ivy-configs.xml", engine, adapters.NewDescriptorXMLAdapter())
	require.NoError(t, err)

	names := make([]string, 0, len(confs))
	for _, conf := range confs {
		names = append(names, conf.Name)
	}
	// case-insensitive order, case-insensitive duplicates collapsed to
	// the first declaration ("test" wins over "Test")
	assert.Equal(t, []string{"Compile", "RUNTIME", "sources", "test"}, names)

	for _, conf := range confs {
		if conf.Name == "test" {
			assert.Equal(t, types.VisibilityPrivate, conf.Visibility)
		}
		if conf.Name == "sources" {
			assert.Equal(t, "use compile instead", conf.Deprecated)
		}
	}
}

func TestLoadConfigurationsMissingFile(t *testing.T) {
	engine, _ := newTestEngine(t)
	confs, err := LoadConfigurations(filepath.Join(t.TempDir(), "ivy.xml"), engine, adapters.NewDescriptorXMLAdapter())
	require.NoError(t, err)
	assert.Nil(t, confs)
}

func TestLoadConfigurationsDirectoryPath(t *testing.T) {
	engine, _ := newTestEngine(t)
	confs, err := LoadConfigurations(t.TempDir(), engine, adapters.NewDescriptorXMLAdapter())
	require.NoError(t, err)
	assert.Nil(t, confs)
}

func TestLoadConfigurationsSyntaxErrorSurfaces(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := LoadConfigurations("../../fixtures/ivy-bad-syntax.xml", engine, adapters.NewDescriptorXMLAdapter())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Equal(t, 0, engine.ContextDepth())
}

func TestLoadConfigurationsSwallowsSemanticErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ivy.xml")
	content := `<ivy-module version="2.0"><info module="nameless"/></ivy-module>`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	engine, console := newTestEngine(t)
	confs, err := LoadConfigurations(path, engine, adapters.NewDescriptorXMLAdapter())
	require.NoError(t, err)
	assert.Nil(t, confs)
	assert.Contains(t, console.String(), "error while parsing ivy file")
}

func TestParseDescriptorPopsContextOnEveryPath(t *testing.T) {
	engine, _ := newTestEngine(t)
	parser := adapters.NewDescriptorXMLAdapter()

	_, err := ParseDescriptor("../../fixtures/ivy-sample.xml", engine, parser)
	require.NoError(t, err)
	assert.Equal(t, 0, engine.ContextDepth())

	_, err = ParseDescriptor("../../fixtures/ivy-bad-syntax.xml", engine, parser)
	require.Error(t, err)
	assert.Equal(t, 0, engine.ContextDepth())
}
