package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PatrikHajek/time-tracker/internal/datetime"
)

var stopCmd = &cobra.Command{
	Use:   "stop [relative-time]",
	Short: "End the current session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		s, err := lastSession(store)
		if err != nil {
			return err
		}

		current := now()
		at, err := resolveTime(current, args, atFlag)
		if err != nil {
			return err
		}
		if err := checkNotFuture(at, current); err != nil {
			return err
		}
		if err := checkNotBefore(at, s.End()); err != nil {
			return err
		}

		if err := s.Stop(at); err != nil {
			return err
		}
		if err := save(store, s); err != nil {
			return err
		}

		cmd.Printf("Session stopped at %s after %s.\n", pretty(at), datetime.GetTimeHR(s.TimeAt(current)))
		return nil
	},
}

func init() {
	addAtFlag(stopCmd)
	rootCmd.AddCommand(stopCmd)
}
