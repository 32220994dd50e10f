package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ModelsCmd manages the provider/model catalog.
func ModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List and manage the model catalog",
	}
	cmd.AddCommand(modelsListCmd(), modelsEnableCmd(true), modelsEnableCmd(false))
	return cmd
}

func modelsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available models grouped by provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			groups, err := rt.db.ModelConfigs.ListModelGroups()
			if err != nil {
				return err
			}
			for _, group := range groups {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", group.ProviderName, group.ProviderID)
				for _, mdl := range group.Models {
					status := "disabled"
					if mdl.Enabled {
						status = "enabled"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  %-40s %-30s %s\n", mdl.Key, mdl.DisplayName, status)
				}
			}
			return nil
		},
	}
}

func modelsEnableCmd(enable bool) *cobra.Command {
	use, short := "enable <model-key>", "Enable a model"
	if !enable {
		use, short = "disable <model-key>", "Disable a model"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			mdl, err := rt.db.ModelConfigs.SetModelEnabled(args[0], enable)
			if err != nil {
				return err
			}
			state := "disabled"
			if mdl.Enabled {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", mdl.DisplayName, state)
			return nil
		},
	}
}
