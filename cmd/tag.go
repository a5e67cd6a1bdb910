package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PatrikHajek/time-tracker/internal/session"
)

var tagCmd = &cobra.Command{
	Use:   "tag <tag>...",
	Short: "Tag the last mark",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeTags(cmd, args, (*session.Session).Tag, "Tagged", "Already tagged")
	},
}

var untagCmd = &cobra.Command{
	Use:   "untag <tag>...",
	Short: "Remove tags from the last mark",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeTags(cmd, args, (*session.Session).Untag, "Untagged", "Not tagged")
	},
}

// changeTags applies op to every tag and saves only when something changed.
func changeTags(cmd *cobra.Command, args []string, op func(*session.Session, session.Tag) bool, done, noop string) error {
	tags := make([]session.Tag, 0, len(args))
	for _, a := range args {
		t, err := session.NewTag(a)
		if err != nil {
			return err
		}
		tags = append(tags, t)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	s, err := lastSession(store)
	if err != nil {
		return err
	}

	changed := false
	for _, t := range tags {
		if op(s, t) {
			changed = true
			cmd.Printf("%s `%s`.\n", done, t)
		} else {
			cmd.Printf("%s `%s`.\n", noop, t)
		}
	}
	if !changed {
		return nil
	}
	return save(store, s)
}

func init() {
	rootCmd.AddCommand(tagCmd, untagCmd)
}
