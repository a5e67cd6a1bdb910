package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PatrikHajek/time-tracker/internal/report"
)

var (
	exportFormat string
	exportWeek   bool
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions as JSON or YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer, err := report.RendererFor(exportFormat)
		if err != nil {
			return err
		}
		sessions, err := loadSessions(exportWeek)
		if err != nil {
			return err
		}

		out, err := renderer.Render(report.Build(sessions, now()))
		if err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}

		if exportOutput == "" || exportOutput == "-" {
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}
		if err := os.WriteFile(exportOutput, out, 0o644); err != nil {
			return err
		}
		cmd.PrintErrf("Exported %s to %s.\n", plural(len(sessions), "session"), exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json or yaml")
	exportCmd.Flags().BoolVar(&exportWeek, "week", false, "only export sessions of the latest session's week")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
