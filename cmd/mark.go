package cmd

import (
	"github.com/spf13/cobra"
)

var markCmd = &cobra.Command{
	Use:   "mark [relative-time]",
	Short: "Add a mark to the current session",
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

		if err := s.Mark(at); err != nil {
			return err
		}
		if err := save(store, s); err != nil {
			return err
		}

		cmd.Printf("Marked %s.\n", pretty(at))
		return nil
	},
}

var remarkCmd = &cobra.Command{
	Use:   "remark [relative-time]",
	Short: "Move the last mark to a new time",
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
		if marks := s.Marks(); len(marks) > 1 {
			if err := checkNotBefore(at, marks[len(marks)-2].Date()); err != nil {
				return err
			}
		}

		previous := s.End()
		s.Remark(at)
		if err := save(store, s); err != nil {
			return err
		}

		cmd.Printf("Moved mark from %s to %s.\n", pretty(previous), pretty(at))
		return nil
	},
}

var unmarkCmd = &cobra.Command{
	Use:   "unmark",
	Short: "Remove the last mark of the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		s, err := lastSession(store)
		if err != nil {
			return err
		}

		m, ok := s.Unmark()
		if !ok {
			cmd.Println("Nothing to unmark: only the session start is left.")
			return nil
		}
		if err := save(store, s); err != nil {
			return err
		}

		cmd.Printf("Removed mark at %s.\n", pretty(m.Date()))
		if m.Contents() != "" {
			logger.Info("removed mark had contents", "date", pretty(m.Date()), "contents", m.Contents())
		}
		return nil
	},
}

var skipCmd = &cobra.Command{
	Use:   "skip",
	Short: "Exclude the time following the last mark",
	Long: `skip marks the interval that starts at the last mark as excluded from
elapsed time. It replaces any previous attribute of the mark, including the
end of a stopped session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		s, err := lastSession(store)
		if err != nil {
			return err
		}

		s.Skip()
		if err := save(store, s); err != nil {
			return err
		}

		cmd.Printf("Skipping time after %s.\n", pretty(s.End()))
		return nil
	},
}

func init() {
	addAtFlag(markCmd)
	addAtFlag(remarkCmd)
	rootCmd.AddCommand(markCmd, remarkCmd, unmarkCmd, skipCmd)
}
