package cmd

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the timetracker version",
	Args:  cobra.NoArgs,
	// The version is printed even when the config is unreadable.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("timetracker %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
