package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// KeysCmd manages provider API keys in the OS keychain.
func KeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage provider API keys",
	}
	cmd.AddCommand(keysSetCmd(), keysDeleteCmd(), keysListCmd())
	return cmd
}

func keysSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <provider> <api-key>",
		Short: "Store an API key for a provider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			provider := strings.TrimSpace(args[0])
			if err := rt.keyring.StoreApiKey(provider, []byte(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored API key for %s\n", provider)
			return nil
		},
	}
}

func keysDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <provider>",
		Short: "Delete the stored API key for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			provider := strings.TrimSpace(args[0])
			if err := rt.keyring.DeleteApiKey(provider); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted API key for %s\n", provider)
			return nil
		},
	}
}

func keysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List providers with a configured API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			keys, err := rt.keyring.ListApiKeys()
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no API keys configured")
				return nil
			}
			for _, entry := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), entry["provider"])
			}
			return nil
		},
	}
}
