// Package aggregate computes elapsed-time statistics over stored sessions.
package aggregate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PatrikHajek/time-tracker/internal/datetime"
	"github.com/PatrikHajek/time-tracker/internal/session"
)

// ErrEmpty is returned by New when there are no sessions to aggregate.
var ErrEmpty = errors.New("no sessions to aggregate")

const contentsSeparator = "---------------------------------"

// Aggregator is a read-only view over sessions ordered oldest first.
type Aggregator struct {
	sessions []*session.Session
}

// Summary describes the newest session and its week. Durations use the
// "<H>h <M>m <S>s" form.
type Summary struct {
	Start            string
	WeekTime         string
	SessionTime      string
	LastMarkAge      string
	LastMarkContents string
	Active           bool
}

// New returns an Aggregator over sessions, which must be ordered oldest
// first.
func New(sessions []*session.Session) (*Aggregator, error) {
	if len(sessions) == 0 {
		return nil, ErrEmpty
	}
	return &Aggregator{sessions: append([]*session.Session(nil), sessions...)}, nil
}

// Latest returns the newest session.
func (a *Aggregator) Latest() *session.Session {
	return a.sessions[len(a.sessions)-1]
}

// Week returns the sessions that started on or after the Monday of the
// newest session's week. Sessions are never split at the boundary.
func (a *Aggregator) Week() []*session.Session {
	weekStart := datetime.StartOfWeek(a.Latest().Start())
	var out []*session.Session
	for _, s := range a.sessions {
		if !s.Start().Before(weekStart) {
			out = append(out, s)
		}
	}
	return out
}

// WeekTime sums the elapsed milliseconds of the week's sessions at now.
func (a *Aggregator) WeekTime(now time.Time) int64 {
	var total int64
	for _, s := range a.Week() {
		total += s.TimeAt(now)
	}
	return total
}

// Summary computes the statistics of the newest session at now.
func (a *Aggregator) Summary(now time.Time) Summary {
	latest := a.Latest()
	last := latest.LastMark()

	var age int64
	if latest.IsActive() {
		age = datetime.GetTime(last.Date(), now)
	}

	return Summary{
		Start:            datetime.FormatPretty(latest.Start()),
		WeekTime:         datetime.GetTimeHR(a.WeekTime(now)),
		SessionTime:      datetime.GetTimeHR(latest.TimeAt(now)),
		LastMarkAge:      datetime.GetTimeHR(age),
		LastMarkContents: last.Contents(),
		Active:           latest.IsActive(),
	}
}

// View renders the summary printed by the view command, followed by the
// newest mark as it appears in the session document.
func (a *Aggregator) View(now time.Time) (string, error) {
	sum := a.Summary(now)
	block, err := session.EncodeMark(a.Latest().LastMark())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if !sum.Active {
		b.WriteString("No active session, last session:\n")
	}
	fmt.Fprintf(&b, "Start: %s\n", sum.Start)
	fmt.Fprintf(&b, "Week: %s\n", sum.WeekTime)
	fmt.Fprintf(&b, "Time: %s\n", sum.SessionTime)
	fmt.Fprintf(&b, "Mark: %s\n", sum.LastMarkAge)
	b.WriteString(contentsSeparator + "\n")
	b.WriteString(block)
	return b.String(), nil
}
