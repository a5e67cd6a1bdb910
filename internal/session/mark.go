package session

import (
	"strings"
	"time"
)

// Attribute is the mutually exclusive status carried by a mark.
type Attribute int

const (
	AttributeNone Attribute = iota
	// AttributeStop ends the session as of the mark.
	AttributeStop
	// AttributeSkip excludes the interval that starts at the mark.
	AttributeSkip
)

func (a Attribute) String() string {
	switch a {
	case AttributeNone:
		return "none"
	case AttributeStop:
		return "stop"
	case AttributeSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// label is the document line text for a non-none attribute.
func (a Attribute) label() string {
	switch a {
	case AttributeStop:
		return "end"
	case AttributeSkip:
		return "skip"
	default:
		return ""
	}
}

// Mark is one timestamped checkpoint of a session.
type Mark struct {
	date      time.Time
	attribute Attribute
	tags      Tags
	contents  string
}

func newMark(date time.Time) Mark {
	return Mark{date: date.Truncate(time.Second)}
}

func (m Mark) Date() time.Time      { return m.date }
func (m Mark) Attribute() Attribute { return m.attribute }
func (m Mark) Contents() string     { return m.contents }

// Tags returns the mark's tags sorted by text.
func (m Mark) Tags() []Tag { return m.tags.Sorted() }

func (m Mark) HasTag(t Tag) bool { return m.tags.Has(t) }

// Equal compares marks by instant, attribute, tag set and contents.
func (m Mark) Equal(other Mark) bool {
	return m.date.Equal(other.date) &&
		m.attribute == other.attribute &&
		m.tags.Equal(other.tags) &&
		m.contents == other.contents
}

func (m *Mark) erase() { m.contents = "" }

func (m Mark) clone() Mark {
	m.tags = m.tags.clone()
	return m
}

// normalizeContents drops surrounding blank lines and carriage returns so
// that stored contents look exactly like decoded contents.
func normalizeContents(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return strings.Join(trimBlankLines(lines), "\n")
}

func trimBlankLines(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
