package cmd

import (
	"github.com/spf13/cobra"
)

var pathDir bool

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the path of the latest session file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if pathDir {
			cmd.Println(store.Dir())
			return nil
		}
		s, err := lastSession(store)
		if err != nil {
			return err
		}
		cmd.Println(s.Path())
		return nil
	},
}

func init() {
	pathCmd.Flags().BoolVarP(&pathDir, "dir", "d", false, "print the sessions directory instead")
	rootCmd.AddCommand(pathCmd)
}
