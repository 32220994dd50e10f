package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chartchat/internal/cli"
	"chartchat/internal/utils"
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = utils.LoadEnv()

	rootCmd := &cobra.Command{
		Use:   "chartchat",
		Short: "ChartChat turns natural-language instructions into D3 visualizations",
		Long: `ChartChat generates runnable D3.js visualization code from a tabular
dataset and a natural-language instruction, refining invalid model output
and falling back to a deterministic chart when refinement fails.`,
	}

	rootCmd.AddCommand(cli.GenerateCmd())
	rootCmd.AddCommand(cli.RefineCmd())
	rootCmd.AddCommand(cli.HistoryCmd())
	rootCmd.AddCommand(cli.RevertCmd())
	rootCmd.AddCommand(cli.RenderCmd())
	rootCmd.AddCommand(cli.ModelsCmd())
	rootCmd.AddCommand(cli.KeysCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
