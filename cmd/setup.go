package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PatrikHajek/time-tracker/internal/config"
)

// runSetupForm asks for the settings; tests replace it.
var runSetupForm = config.RunSetup

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure timetracker (re-run anytime to edit settings)",
	Args:  cobra.NoArgs,
	// Bypass the normal PersistentPreRunE so setup works with a broken config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		existing, err := config.Load()
		if err != nil {
			// A config that cannot be parsed is replaced.
			cmd.PrintErrf("  ⚠ %v; starting from defaults\n", err)
			existing = config.Defaults()
		}

		answers, err := runSetupForm(existing)
		if err != nil {
			return fmt.Errorf("setup cancelled: %w", err)
		}

		path, err := config.WriteGlobal(answers)
		if err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		cmd.Printf("  ✓ Config saved to %s.\n", path)
		cmd.Println("  Run 'timetracker start' to begin a session.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
