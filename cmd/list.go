package cmd

import (
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/PatrikHajek/time-tracker/internal/aggregate"
	"github.com/PatrikHajek/time-tracker/internal/datetime"
	"github.com/PatrikHajek/time-tracker/internal/session"
)

var listWeek bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions with their tracked time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := loadSessions(listWeek)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			cmd.Println("No sessions yet.")
			return nil
		}

		current := now()
		var total int64
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, s := range sessions {
			ms := s.TimeAt(current)
			total += ms
			state := "ended"
			if s.IsActive() {
				state = "running"
			}
			_, _ = w.Write([]byte(datetime.FormatPretty(s.Start()) + "\t" +
				datetime.GetTimeHR(ms) + "\t" +
				humanize.RelTime(s.Start(), current, "ago", "from now") + "\t" +
				state + "\n"))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		cmd.Printf("Total: %s across %s\n", datetime.GetTimeHR(total), plural(len(sessions), "session"))
		return nil
	},
}

// loadSessions returns every stored session, or only this week's when week
// is set.
func loadSessions(week bool) ([]*session.Session, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	sessions, err := store.LoadAll()
	if err != nil || !week || len(sessions) == 0 {
		return sessions, err
	}
	agg, err := aggregate.New(sessions)
	if err != nil {
		return nil, err
	}
	return agg.Week(), nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}

func init() {
	listCmd.Flags().BoolVar(&listWeek, "week", false, "only list sessions of the latest session's week")
	rootCmd.AddCommand(listCmd)
}
