package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/PatrikHajek/time-tracker/internal/collector"
	"github.com/PatrikHajek/time-tracker/internal/session"
)

var (
	writeForce  bool
	writeBranch bool
	writeLog    bool
)

// confirmOverwrite asks before replacing existing mark contents; tests
// replace it.
var confirmOverwrite = func(existing string) (bool, error) {
	if !term.IsTerminal(os.Stdin.Fd()) {
		return false, errors.New("mark already has contents; use --force to overwrite")
	}
	ok := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Current contents").
				Description(existing),
			huh.NewConfirm().
				Title("Overwrite the contents of the last mark?").
				Affirmative("Overwrite").
				Negative("Keep").
				Value(&ok),
		),
	).Run()
	return ok, err
}

// gitCollector reads the working directory's repository; tests replace the
// runner.
var gitCollector = &collector.GitCollector{WorkDir: "."}

var writeCmd = &cobra.Command{
	Use:   "write [text...]",
	Short: "Write notes into the last mark",
	Long: `write stores text as the contents of the last mark. With --branch the
current git branch name is written instead, with --log the one-line
summaries of commits made since the session started.

When the mark already has contents you are asked before overwriting them,
unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := writeText(cmd.Context(), args)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		s, err := lastSession(store)
		if err != nil {
			return err
		}

		err = s.Write(text)
		if errors.Is(err, session.ErrMarkNotEmpty) {
			overwrite := writeForce
			if !overwrite {
				overwrite, err = confirmOverwrite(s.LastMark().Contents())
				if err != nil {
					return err
				}
			}
			if !overwrite {
				cmd.Println("Kept the existing contents.")
				return nil
			}
			s.Erase()
			err = s.Write(text)
		}
		if err != nil {
			return err
		}

		if err := save(store, s); err != nil {
			return err
		}
		cmd.Printf("Wrote to mark at %s.\n", pretty(s.End()))
		return nil
	},
}

func writeText(ctx context.Context, args []string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	sources := 0
	for _, set := range []bool{len(args) > 0, writeBranch, writeLog} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return "", errors.New("give exactly one of: text, --branch, --log")
	}

	switch {
	case writeBranch:
		branch, err := gitCollector.Branch(ctx)
		if err != nil {
			return "", fmt.Errorf("reading git branch: %w", err)
		}
		return branch, nil
	case writeLog:
		store, err := openStore()
		if err != nil {
			return "", err
		}
		s, err := lastSession(store)
		if err != nil {
			return "", err
		}
		lines, err := gitCollector.RecentLog(ctx, s.Start())
		if err != nil {
			return "", fmt.Errorf("reading git log: %w", err)
		}
		if len(lines) == 0 {
			return "", errors.New("no commits since the session started")
		}
		return strings.Join(lines, "\n"), nil
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return "", errors.New("nothing to write")
	}
	return text, nil
}

func init() {
	writeCmd.Flags().BoolVarP(&writeForce, "force", "f", false, "overwrite existing contents without asking")
	writeCmd.Flags().BoolVarP(&writeBranch, "branch", "b", false, "write the current git branch name")
	writeCmd.Flags().BoolVar(&writeLog, "log", false, "write commits made since the session started")
	rootCmd.AddCommand(writeCmd)
}
