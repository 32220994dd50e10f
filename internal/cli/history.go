package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// HistoryCmd lists the workflow history of a session.
func HistoryCmd() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the workflow history of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			entries, currentSeq, err := rt.charts.History(session)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				marker := " "
				if entry.Seq == currentSeq {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %4d  %-10s %s  %s\n",
					marker, entry.Seq, entry.Artifact.State,
					entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Request)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&session, "session", "default", "workflow session name")
	return cmd
}

// RevertCmd resets the current artifact to a stored history entry.
func RevertCmd() *cobra.Command {
	var (
		session string
		seq     uint64
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "revert",
		Short: "Reset the current artifact to a history entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			artifact, err := rt.charts.Revert(session, seq)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "current artifact reset to %d (%s)\n", seq, artifact.State)
			return writeOutput(outPath, artifact.Code)
		},
	}

	cmd.Flags().StringVar(&session, "session", "default", "workflow session name")
	cmd.Flags().Uint64Var(&seq, "seq", 0, "history sequence number to revert to")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "artifact output path (- for stdout)")
	_ = cmd.MarkFlagRequired("seq")
	return cmd
}
