// Package report builds exportable snapshots of tracked sessions.
package report

import (
	"time"

	"github.com/PatrikHajek/time-tracker/internal/datetime"
	"github.com/PatrikHajek/time-tracker/internal/session"
)

// Report is the complete, renderable representation of a set of sessions.
type Report struct {
	GeneratedAt time.Time      `json:"generated_at" yaml:"generated_at"`
	Total       string         `json:"total" yaml:"total"` // "<H>h <M>m <S>s"
	TotalMS     int64          `json:"total_ms" yaml:"total_ms"`
	Sessions    []SessionEntry `json:"sessions" yaml:"sessions"`
}

// SessionEntry summarizes one session file.
type SessionEntry struct {
	Path       string      `json:"path" yaml:"path"`
	Start      time.Time   `json:"start" yaml:"start"`
	End        time.Time   `json:"end" yaml:"end"`
	Active     bool        `json:"active" yaml:"active"`
	Duration   string      `json:"duration" yaml:"duration"`
	DurationMS int64       `json:"duration_ms" yaml:"duration_ms"`
	Marks      []MarkEntry `json:"marks" yaml:"marks"`
}

// MarkEntry mirrors a single mark.
type MarkEntry struct {
	Date      time.Time `json:"date" yaml:"date"`
	Attribute string    `json:"attribute,omitempty" yaml:"attribute,omitempty"` // stop | skip
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Contents  string    `json:"contents,omitempty" yaml:"contents,omitempty"`
}

// Build snapshots sessions, measuring active ones up to now.
func Build(sessions []*session.Session, now time.Time) *Report {
	r := &Report{
		GeneratedAt: now,
		Sessions:    make([]SessionEntry, 0, len(sessions)),
	}
	for _, s := range sessions {
		entry := entryFor(s, now)
		r.TotalMS += entry.DurationMS
		r.Sessions = append(r.Sessions, entry)
	}
	r.Total = datetime.GetTimeHR(r.TotalMS)
	return r
}

func entryFor(s *session.Session, now time.Time) SessionEntry {
	ms := s.TimeAt(now)
	entry := SessionEntry{
		Path:       s.Path(),
		Start:      s.Start(),
		End:        s.End(),
		Active:     s.IsActive(),
		Duration:   datetime.GetTimeHR(ms),
		DurationMS: ms,
	}
	for _, m := range s.Marks() {
		me := MarkEntry{Date: m.Date(), Contents: m.Contents()}
		if m.Attribute() != session.AttributeNone {
			me.Attribute = m.Attribute().String()
		}
		for _, t := range m.Tags() {
			me.Tags = append(me.Tags, t.String())
		}
		entry.Marks = append(entry.Marks, me)
	}
	return entry
}
