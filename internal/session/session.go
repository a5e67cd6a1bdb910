// Package session models a tracked work session as an ordered, non-empty
// list of marks, and reads and writes it as a heading-structured text
// document.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/PatrikHajek/time-tracker/internal/datetime"
)

// Session is an ordered sequence of marks. The first mark is the start; the
// session is active until its last mark carries AttributeStop.
//
// Methods that inspect or change the last mark panic when the session has
// no marks, which only happens to a zero Session.
type Session struct {
	path  string
	marks []Mark
}

// New returns an active session with a single empty mark at start.
func New(path string, start time.Time) *Session {
	return &Session{path: path, marks: []Mark{newMark(start)}}
}

// Path identifies where the session is stored.
func (s *Session) Path() string { return s.path }

// Marks returns a copy of the session's marks in order.
func (s *Session) Marks() []Mark {
	out := make([]Mark, len(s.marks))
	for i, m := range s.marks {
		out[i] = m.clone()
	}
	return out
}

func (s *Session) Len() int { return len(s.marks) }

func (s *Session) first() *Mark {
	s.mustHaveMarks()
	return &s.marks[0]
}

func (s *Session) last() *Mark {
	s.mustHaveMarks()
	return &s.marks[len(s.marks)-1]
}

func (s *Session) mustHaveMarks() {
	if len(s.marks) == 0 {
		panic(fmt.Sprintf("session %q has no marks", s.path))
	}
}

// LastMark returns a copy of the newest mark.
func (s *Session) LastMark() Mark { return s.last().clone() }

func (s *Session) Start() time.Time { return s.first().date }
func (s *Session) End() time.Time   { return s.last().date }

// IsActive reports whether the session has not been stopped.
func (s *Session) IsActive() bool {
	return s.last().attribute != AttributeStop
}

// Mark appends an empty mark at date.
func (s *Session) Mark(date time.Time) error {
	if !s.IsActive() {
		return ErrSessionEnded
	}
	s.marks = append(s.marks, newMark(date))
	return nil
}

// Stop appends a mark at date that ends the session.
func (s *Session) Stop(date time.Time) error {
	if !s.IsActive() {
		return ErrSessionEnded
	}
	m := newMark(date)
	m.attribute = AttributeStop
	s.marks = append(s.marks, m)
	return nil
}

// Remark moves the last mark to date.
func (s *Session) Remark(date time.Time) {
	s.last().date = date.Truncate(time.Second)
}

// Unmark removes and returns the last mark. The first mark is never
// removed; ok is false in that case.
func (s *Session) Unmark() (m Mark, ok bool) {
	s.mustHaveMarks()
	if len(s.marks) == 1 {
		return Mark{}, false
	}
	m = s.marks[len(s.marks)-1]
	s.marks = s.marks[:len(s.marks)-1]
	return m, true
}

// Skip sets the last mark's attribute to AttributeSkip, replacing any
// previous attribute, AttributeStop included.
func (s *Session) Skip() {
	s.last().attribute = AttributeSkip
}

// Tag adds t to the last mark and reports whether it was missing.
func (s *Session) Tag(t Tag) bool {
	return s.last().tags.Add(t)
}

// Untag removes t from the last mark and reports whether it was present.
func (s *Session) Untag(t Tag) bool {
	return s.last().tags.Remove(t)
}

// Write sets the contents of the last mark. It fails with
// ErrContentsNotEncodable for text the document cannot hold, and with
// ErrMarkNotEmpty when the mark already has contents.
func (s *Session) Write(text string) error {
	m := s.last()
	contents := normalizeContents(text)
	if err := checkContents(contents); err != nil {
		return err
	}
	if m.contents != "" {
		return ErrMarkNotEmpty
	}
	m.contents = contents
	return nil
}

// Erase clears the contents of the last mark.
func (s *Session) Erase() {
	s.last().erase()
}

// GetTime returns the elapsed milliseconds up to now.
func (s *Session) GetTime() int64 {
	return s.TimeAt(datetime.Now())
}

// TimeAt returns the elapsed milliseconds, extrapolating an active session
// up to now. An interval starting at a skipped mark is not counted.
func (s *Session) TimeAt(now time.Time) int64 {
	s.mustHaveMarks()
	var elapsed int64
	for i := 0; i < len(s.marks)-1; i++ {
		if s.marks[i].attribute == AttributeSkip {
			continue
		}
		elapsed += datetime.GetTime(s.marks[i].date, s.marks[i+1].date)
	}
	if last := s.last(); s.IsActive() && last.attribute != AttributeSkip {
		elapsed += datetime.GetTime(last.date, now)
	}
	return elapsed
}

// Equal reports whether both sessions hold equal marks in the same order.
// Paths are not compared.
func (s *Session) Equal(other *Session) bool {
	if len(s.marks) != len(other.marks) {
		return false
	}
	for i := range s.marks {
		if !s.marks[i].Equal(other.marks[i]) {
			return false
		}
	}
	return true
}

// String renders a one-line description for logs.
func (s *Session) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "session %s", s.path)
	if len(s.marks) > 0 {
		fmt.Fprintf(&b, " (%d marks, start %s", len(s.marks), datetime.Format(s.Start()))
		if !s.IsActive() {
			b.WriteString(", ended")
		}
		b.WriteString(")")
	}
	return b.String()
}
