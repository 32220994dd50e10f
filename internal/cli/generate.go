package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// GenerateCmd produces the initial visualization for a table, or modifies
// the current one when an instruction is given.
func GenerateCmd() *cobra.Command {
	var (
		tablePath   string
		session     string
		instruction string
		modelKey    string
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a visualization artifact from a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			dataset, err := loadDataset(tablePath)
			if err != nil {
				return err
			}

			report, err := rt.charts.Generate(ctx, session, dataset, instruction, modelKey)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "artifact %d (%s), %d refinement attempt(s)\n",
				report.Entry.Seq, report.Entry.Artifact.State, report.Attempts)
			if report.Failure != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "generation degraded: %v\n", report.Failure)
			}
			return writeOutput(outPath, report.Entry.Artifact.Code)
		},
	}

	cmd.Flags().StringVar(&tablePath, "table", "", "path to the table JSON file")
	cmd.Flags().StringVar(&session, "session", "default", "workflow session name")
	cmd.Flags().StringVarP(&instruction, "instruction", "i", "", "modification request (empty for the initial chart)")
	cmd.Flags().StringVarP(&modelKey, "model", "m", "", "model key (provider|api-name)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "artifact output path (- for stdout)")
	return cmd
}

// RefineCmd is generate with a mandatory instruction, for discoverability.
func RefineCmd() *cobra.Command {
	var (
		tablePath   string
		session     string
		instruction string
		modelKey    string
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "refine",
		Short: "Modify the current visualization with an instruction",
		RunE: func(cmd *cobra.Command, args []string) error {
			if instruction == "" {
				return fmt.Errorf("--instruction is required")
			}
			ctx := cmd.Context()
			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			dataset, err := loadDataset(tablePath)
			if err != nil {
				return err
			}

			report, err := rt.charts.Generate(ctx, session, dataset, instruction, modelKey)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "artifact %d (%s), %d refinement attempt(s)\n",
				report.Entry.Seq, report.Entry.Artifact.State, report.Attempts)
			return writeOutput(outPath, report.Entry.Artifact.Code)
		},
	}

	cmd.Flags().StringVar(&tablePath, "table", "", "path to the table JSON file")
	cmd.Flags().StringVar(&session, "session", "default", "workflow session name")
	cmd.Flags().StringVarP(&instruction, "instruction", "i", "", "modification request")
	cmd.Flags().StringVarP(&modelKey, "model", "m", "", "model key (provider|api-name)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "artifact output path (- for stdout)")
	return cmd
}
