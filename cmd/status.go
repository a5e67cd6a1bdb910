package cmd

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/PatrikHajek/time-tracker/internal/datetime"
	"github.com/PatrikHajek/time-tracker/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a session is running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		s, err := store.Last()
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				cmd.Println("No sessions yet.")
				return nil
			}
			return err
		}

		t := datetime.GetTimeHR(s.TimeAt(now()))
		if s.IsActive() {
			cmd.Printf("Running since %s (%s, %d marks).\n", pretty(s.Start()), t, s.Len())
		} else {
			cmd.Printf("Stopped at %s after %s.\n", pretty(s.End()), t)
		}
		cmd.Printf("File: %s\n", filepath.Base(s.Path()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
