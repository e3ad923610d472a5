package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ivybridge/internal/app"
)

// targetOptions are the flags shared by every command that operates on
// one module's descriptor.
type targetOptions struct {
	WorkspaceFile string
	Module        string
	Descriptor    string
	Settings      string
}

func addTargetFlags(cmd *cobra.Command, opts *targetOptions) {
	cmd.Flags().StringVar(&opts.WorkspaceFile, "workspace-file", "ivybridge.yaml", "Workspace file path")
	cmd.Flags().StringVar(&opts.Module, "module", "", "Module name from the workspace file")
	cmd.Flags().StringVar(&opts.Descriptor, "descriptor", "", "Ivy descriptor path (bypasses the workspace file)")
	cmd.Flags().StringVar(&opts.Settings, "settings", "", "Ivy settings path override")
	_ = viper.BindPFlag("workspace_file", cmd.Flags().Lookup("workspace-file"))
	_ = viper.BindPFlag("module", cmd.Flags().Lookup("module"))
	_ = viper.BindPFlag("descriptor", cmd.Flags().Lookup("descriptor"))
	_ = viper.BindPFlag("settings", cmd.Flags().Lookup("settings"))
}

func targetFromOptions(cmd *cobra.Command, opts targetOptions) app.ModuleTarget {
	return app.ModuleTarget{
		WorkspaceFile: resolveString(cmd, opts.WorkspaceFile, "workspace_file", "workspace-file"),
		Module:        resolveString(cmd, opts.Module, "module", "module"),
		Descriptor:    resolveString(cmd, opts.Descriptor, "descriptor", "descriptor"),
		Settings:      resolveString(cmd, opts.Settings, "settings", "settings"),
	}
}
