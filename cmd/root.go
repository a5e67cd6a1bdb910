package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/PatrikHajek/time-tracker/internal/config"
	"github.com/PatrikHajek/time-tracker/internal/datetime"
	"github.com/PatrikHajek/time-tracker/internal/logging"
	"github.com/PatrikHajek/time-tracker/internal/session"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var (
	logger   = slog.New(slog.NewTextHandler(io.Discard, nil))
	closeLog = func() error { return nil }
	verbose  bool
)

// now is the clock used by every command; tests replace it.
var now = datetime.Now

var rootCmd = &cobra.Command{
	Use:   "timetracker",
	Short: "Track work sessions as plain-text documents",
	Long: `timetracker records work sessions as markdown-like files, one per session.
Each session is a list of marks; the time between marks is summed up per
session and per week.

Commands that take a time accept an optional relative argument:
  2h, -15m, +30s   shift now by hours, minutes or seconds
  13:15, -9:02     a clock time ahead of (or, with "-", behind) now
  10, -10          a minute of the current hour, ahead or behind`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// First run: write the defaults so the user has a file to edit.
		created, err := config.EnsureGlobal()
		if err != nil {
			return fmt.Errorf("creating global config: %w", err)
		}

		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		l, closeFn, err := logging.New(logging.Options{
			Level:   cfg.LogLevel,
			File:    cfg.LogFile,
			Verbose: verbose,
			Stderr:  cmd.ErrOrStderr(),
		})
		if err != nil {
			return fmt.Errorf("configuring logging: %w", err)
		}
		logger, closeLog = l, closeFn
		slog.SetDefault(logger)

		if created {
			path, _ := config.GlobalPath()
			logger.Info("wrote default config", "path", path)
		}
		logger.Debug("config loaded", "sessions_path", cfg.SessionsPath, "log_level", cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	rootCmd.SetArgs(normalizeArgs(rootCmd, os.Args[1:]))
	err := rootCmd.Execute()
	if cerr := closeLog(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// negativeRelative matches relative time input such as "-10", "-9:02",
// "-15m" or "--15s".
var negativeRelative = regexp.MustCompile(`^--?[0-9+]`)

// normalizeArgs inserts "--" before the first negative relative time so
// the flag parser treats it as an argument. Flags given after it are moved
// in front of the "--", together with their values.
func normalizeArgs(root *cobra.Command, args []string) []string {
	for i, a := range args {
		if a == "--" {
			return args
		}
		if !negativeRelative.MatchString(a) {
			continue
		}

		c, _, err := root.Find(args[:i])
		if err != nil {
			c = root
		}
		var flags, positional []string
		tail := args[i:]
		for j := 0; j < len(tail); j++ {
			t := tail[j]
			switch {
			case t == "--":
				positional = append(positional, tail[j+1:]...)
				j = len(tail)
			case negativeRelative.MatchString(t), !strings.HasPrefix(t, "-"), t == "-":
				positional = append(positional, t)
			default:
				flags = append(flags, t)
				if takesValue(c, t) && j+1 < len(tail) {
					j++
					flags = append(flags, tail[j])
				}
			}
		}

		out := make([]string, 0, len(args)+1)
		out = append(out, args[:i]...)
		out = append(out, flags...)
		out = append(out, "--")
		return append(out, positional...)
	}
	return args
}

// takesValue reports whether flag arg of c consumes the following argument.
func takesValue(c *cobra.Command, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		f := c.Flags().Lookup(name)
		if f == nil {
			f = c.InheritedFlags().Lookup(name)
		}
		return f != nil && f.NoOptDefVal == ""
	}
	// "-ofile" carries its value; grouped shorthands are treated the same.
	if len(arg) != 2 {
		return false
	}
	f := c.Flags().ShorthandLookup(arg[1:])
	if f == nil {
		f = c.InheritedFlags().ShorthandLookup(arg[1:])
	}
	return f != nil && f.NoOptDefVal == ""
}

// openStore returns the session store for the configured directory.
func openStore() (session.SessionStore, error) {
	return session.NewStore(cfg.SessionsPath)
}

// lastSession loads the newest session, turning ErrNoSession into a hint.
func lastSession(store session.SessionStore) (*session.Session, error) {
	s, err := store.Last()
	if errors.Is(err, session.ErrNoSession) {
		return nil, fmt.Errorf("%w in %s; run 'timetracker start' first", err, store.Dir())
	}
	return s, err
}

// save persists s and logs the result.
func save(store session.SessionStore, s *session.Session) error {
	if err := store.Save(s); err != nil {
		return err
	}
	logger.Debug("saved session", "path", s.Path(), "marks", s.Len(), "active", s.IsActive())
	return nil
}

func pretty(t time.Time) string {
	return datetime.FormatPretty(t)
}
