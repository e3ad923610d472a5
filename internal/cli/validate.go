package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ivybridge/internal/app"
)

func newValidateCommand() *cobra.Command {
	opts := targetOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a module's descriptor and settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	addTargetFlags(cmd, &opts)
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts targetOptions) error {
	service := newAppService()
	result, err := service.Validate(ctx, app.ValidateRequest{
		Target: targetFromOptions(cmd, opts),
	})
	if err != nil {
		return err
	}
	fmt.Printf("validated: %s#%s;%s (%d configurations, %d dependencies)\n",
		result.Organisation, result.Module, result.Revision,
		result.Configurations, result.Dependencies)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
