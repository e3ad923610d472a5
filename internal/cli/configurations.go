package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ivybridge/internal/app"
)

func newConfigurationsCommand() *cobra.Command {
	opts := targetOptions{}
	cmd := &cobra.Command{
		Use:   "configurations",
		Short: "List the configurations declared by a module's descriptor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigurations(cmd.Context(), cmd, opts)
		},
	}
	addTargetFlags(cmd, &opts)
	return cmd
}

func runConfigurations(ctx context.Context, cmd *cobra.Command, opts targetOptions) error {
	service := newAppService()
	result, err := service.Configurations(ctx, app.ConfigurationsRequest{
		Target: targetFromOptions(cmd, opts),
	})
	if err != nil {
		return err
	}
	if result.Missing {
		fmt.Printf("%s: no configurations available\n", result.Module)
		return nil
	}
	fmt.Printf("%s: %d configurations\n", result.Module, len(result.Configurations))
	for _, conf := range result.Configurations {
		line := fmt.Sprintf("- %s (%s)", conf.Name, conf.Visibility)
		if len(conf.Extends) > 0 {
			line += " extends " + strings.Join(conf.Extends, ", ")
		}
		if conf.Description != "" {
			line += ": " + conf.Description
		}
		fmt.Println(line)
	}
	return nil
}
