package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ivybridge/internal/app"
)

func newInfoCommand() *cobra.Command {
	opts := targetOptions{}
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the full descriptor summary for a module",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInfo(cmd.Context(), cmd, opts)
		},
	}
	addTargetFlags(cmd, &opts)
	return cmd
}

func runInfo(ctx context.Context, cmd *cobra.Command, opts targetOptions) error {
	service := newAppService()
	result, err := service.Info(ctx, app.InfoRequest{
		Target: targetFromOptions(cmd, opts),
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s#%s;%s", result.Organisation, result.Module, result.Revision)
	if result.Status != "" {
		fmt.Printf(" (%s)", result.Status)
	}
	fmt.Println()
	fmt.Printf("configurations: %d\n", len(result.Configurations))
	for _, conf := range result.Configurations {
		fmt.Printf("- %s (%s)\n", conf.Name, conf.Visibility)
	}
	fmt.Printf("dependencies: %d\n", len(result.Dependencies))
	for _, dep := range result.Dependencies {
		line := fmt.Sprintf("- %s#%s;%s", dep.Organisation, dep.Module, dep.Revision)
		if !dep.Transitive {
			line += " (intransitive)"
		}
		fmt.Println(line)
	}
	fmt.Printf("publications: %d\n", len(result.Publications))
	for _, artifact := range result.Publications {
		fmt.Printf("- %s.%s (%s)\n", artifact.Name, artifact.Ext, artifact.Type)
	}
	return nil
}
