package cmd

import (
	"errors"
	"fmt"
	"time"

	dps "github.com/markusmobius/go-dateparser"
	"github.com/spf13/cobra"

	"github.com/PatrikHajek/time-tracker/internal/datetime"
)

// atFlag holds the --at value shared by the commands that record a time.
var atFlag string

func addAtFlag(c *cobra.Command) {
	c.Flags().StringVar(&atFlag, "at", "", `absolute time in natural language, e.g. "9:30", "yesterday 17:00"`)
}

// resolveTime turns the optional relative argument or --at value into an
// instant, defaulting to base.
func resolveTime(base time.Time, args []string, at string) (time.Time, error) {
	switch {
	case at != "" && len(args) > 0:
		return time.Time{}, errors.New("use either a relative time argument or --at, not both")
	case at != "":
		parsed, err := dps.Parse(&dps.Configuration{
			CurrentTime:         base,
			PreferredDateSource: dps.Past,
		}, at)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing --at %q: %w", at, err)
		}
		return parsed.Time.In(base.Location()).Truncate(time.Second), nil
	case len(args) == 1:
		return datetime.ModifyByRelativeInput(base, args[0])
	default:
		return base, nil
	}
}

// checkNotFuture rejects instants after current; a future mark would make
// every running total negative.
func checkNotFuture(t, current time.Time) error {
	if t.After(current) {
		return fmt.Errorf("%s is in the future", pretty(t))
	}
	return nil
}

// checkNotBefore rejects t when it precedes prev, keeping marks ordered.
func checkNotBefore(t, prev time.Time) error {
	if t.Before(prev) {
		return fmt.Errorf("%s is before the previous mark at %s", pretty(t), pretty(prev))
	}
	return nil
}
