package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chartchat/internal/models"
	"chartchat/internal/render"
)

// RenderCmd wraps the current artifact of a session in a standalone HTML
// page that can be opened in a browser.
func RenderCmd() *cobra.Command {
	var (
		session   string
		tablePath string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Build a preview HTML page for the current artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			artifact, err := rt.charts.Current(session)
			if err != nil {
				return err
			}

			if strings.TrimSpace(tablePath) == "" {
				return fmt.Errorf("--table is required")
			}
			table, err := models.LoadTable(tablePath)
			if err != nil {
				return err
			}

			payload := render.NewPayload(artifact, table.Sample(table.RowCount()))
			doc, err := render.HostDocument(payload, rt.cfg.Pipeline.EntryPoint)
			if err != nil {
				return err
			}
			return writeOutput(outPath, doc)
		},
	}

	cmd.Flags().StringVar(&session, "session", "default", "workflow session name")
	cmd.Flags().StringVar(&tablePath, "table", "", "path to the table JSON file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "HTML output path (- for stdout)")
	return cmd
}
