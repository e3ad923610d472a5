package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ivybridge/internal/app"
)

type modulesOptions struct {
	WorkspaceFile string
	Discover      []string
}

func newModulesCommand() *cobra.Command {
	opts := modulesOptions{}
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List workspace modules and discover unreferenced descriptors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runModules(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.WorkspaceFile, "workspace-file", "ivybridge.yaml", "Workspace file path")
	cmd.Flags().StringSliceVar(&opts.Discover, "discover", nil, "Root(s) to scan for ivy descriptors")
	_ = viper.BindPFlag("workspace_file", cmd.Flags().Lookup("workspace-file"))
	_ = viper.BindPFlag("discover", cmd.Flags().Lookup("discover"))
	return cmd
}

func runModules(ctx context.Context, cmd *cobra.Command, opts modulesOptions) error {
	service := newAppService()
	result, err := service.Modules(ctx, app.ModulesRequest{
		WorkspaceFile: resolveString(cmd, opts.WorkspaceFile, "workspace_file", "workspace-file"),
		DiscoverRoots: resolveStrings(cmd, opts.Discover, "discover", "discover"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("modules: %d\n", len(result.Modules))
	for _, module := range result.Modules {
		line := fmt.Sprintf("- %s", module.Name)
		if module.Descriptor != "" {
			line += " -> " + module.Descriptor
		} else {
			line += " (no descriptor configured)"
		}
		if len(module.Configurations) > 0 {
			line += " [" + strings.Join(module.Configurations, ",") + "]"
		}
		fmt.Println(line)
	}
	for _, path := range result.Discovered {
		fmt.Printf("discovered: %s\n", path)
	}
	return nil
}
