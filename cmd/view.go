package cmd

import (
	"errors"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/PatrikHajek/time-tracker/internal/aggregate"
	"github.com/PatrikHajek/time-tracker/internal/session"
	"github.com/PatrikHajek/time-tracker/internal/tui"
)

var watchView bool

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show the latest session and this week's total",
	Long: `view prints the start of the latest session, the time tracked this week,
the session's running time, the time since its last mark and the contents
of that mark.

With --watch a live full-screen view is opened instead; it refreshes every
second and whenever a session file changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		if watchView {
			if !term.IsTerminal(os.Stdout.Fd()) {
				return errors.New("--watch needs an interactive terminal")
			}
			return tui.Run(cmd.Context(), store.LoadAll, store.Dir(), logger)
		}

		sessions, err := store.LoadAll()
		if err != nil {
			return err
		}
		agg, err := aggregate.New(sessions)
		if errors.Is(err, aggregate.ErrEmpty) {
			return lastSessionHint(store)
		}
		if err != nil {
			return err
		}
		out, err := agg.View(now())
		if err != nil {
			return err
		}
		cmd.Print(out)
		return nil
	},
}

// lastSessionHint returns the same error lastSession gives for an empty
// store.
func lastSessionHint(store session.SessionStore) error {
	_, err := lastSession(store)
	return err
}

func init() {
	viewCmd.Flags().BoolVarP(&watchView, "watch", "w", false, "open a live view that refreshes on changes")
	rootCmd.AddCommand(viewCmd)
}
