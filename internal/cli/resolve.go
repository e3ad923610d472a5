package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ivybridge/internal/app"
)

type resolveOptions struct {
	Target    targetOptions
	Confs     []string
	OutputDir string
	CacheDir  string
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve dependencies and write report, lock, and classpath",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), cmd, opts)
		},
	}
	addTargetFlags(cmd, &opts.Target)
	cmd.Flags().StringSliceVar(&opts.Confs, "conf", nil, "Configurations to resolve (default: all public)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	cmd.Flags().StringVar(&opts.CacheDir, "cache", "", "Artifact cache directory")
	_ = viper.BindPFlag("confs", cmd.Flags().Lookup("conf"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("cache", cmd.Flags().Lookup("cache"))
	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	service := newAppService()
	result, err := service.Resolve(ctx, app.ResolveRequest{
		Target:    targetFromOptions(cmd, opts.Target),
		Confs:     resolveStrings(cmd, opts.Confs, "confs", "conf"),
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
		CacheDir:  resolveString(cmd, opts.CacheDir, "cache", "cache"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("resolved: %s#%s [%s] (%d dependencies, %d evictions)\n",
		result.Organisation, result.Module, strings.Join(result.Configurations, ","),
		result.Dependencies, result.Evictions)
	return nil
}
