package cli

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	expected := []string{"configurations", "validate", "resolve", "info", "modules"}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestResolveCommandFlags(t *testing.T) {
	cmd := newResolveCommand()
	flags := []string{
		"workspace-file", "module", "descriptor", "settings",
		"conf", "output", "cache",
	}
	for _, name := range flags {
		flag := cmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "missing flag: %s", name)
	}
}

func TestConfigurationsCommandFlags(t *testing.T) {
	cmd := newConfigurationsCommand()
	assert.NotNil(t, cmd.Flags().Lookup("workspace-file"))
	assert.NotNil(t, cmd.Flags().Lookup("module"))
	assert.NotNil(t, cmd.Flags().Lookup("descriptor"))
	assert.NotNil(t, cmd.Flags().Lookup("settings"))
}

func TestModulesCommandFlags(t *testing.T) {
	cmd := newModulesCommand()
	assert.NotNil(t, cmd.Flags().Lookup("workspace-file"))
	assert.NotNil(t, cmd.Flags().Lookup("discover"))
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"))

	cmd := &cobra.Command{Use: "probe"}
	cmd.Flags().String("known", "", "")
	assert.False(t, flagChanged(cmd, ""))
	assert.False(t, flagChanged(cmd, "known"))
	assert.False(t, flagChanged(cmd, "unknown"))

	require.NoError(t, cmd.Flags().Set("known", "value"))
	assert.True(t, flagChanged(cmd, "known"))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("ivy descriptor syntax error"),
			expected: 2,
		},
		{
			name: "conflicting revisions",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("conflicting revisions for org.demo#lib-c: 1.0.0 vs 2.0.0"),
			expected: 3,
		},
		{
			name: "missing facet",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("no ivy facet configured for module app, but an attempt was made to use it as such"),
			expected: 4,
		},
		{
			name: "no compatible revision",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("no compatible revision for constraint [3.0,4.0)"),
			expected: 4,
		},
		{
			name: "plain not found",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("settings file not found"),
			expected: 5,
		},
		{
			name: "internal",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to download artifact"),
			expected: 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCodeForError(tt.err))
		})
	}
}
