package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PatrikHajek/time-tracker/internal/session"
)

var startCmd = &cobra.Command{
	Use:   "start [relative-time]",
	Short: "Begin a new tracking session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		last, err := store.Last()
		if err != nil && !errors.Is(err, session.ErrNoSession) {
			return err
		}
		if last != nil && last.IsActive() {
			return fmt.Errorf("session already in progress (started at %s)", pretty(last.Start()))
		}

		current := now()
		at, err := resolveTime(current, args, atFlag)
		if err != nil {
			return err
		}
		if err := checkNotFuture(at, current); err != nil {
			return err
		}
		if last != nil {
			if err := checkNotBefore(at, last.End()); err != nil {
				return fmt.Errorf("cannot start: %w", err)
			}
		}

		s := session.New(store.PathFor(at), at)
		if err := save(store, s); err != nil {
			return err
		}

		cmd.Printf("Session started at %s.\n", pretty(s.Start()))
		return nil
	},
}

func init() {
	addAtFlag(startCmd)
	rootCmd.AddCommand(startCmd)
}
