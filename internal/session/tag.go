package session

import (
	"fmt"
	"sort"
	"strings"
)

// Tag is a free-text label attached to a mark. The zero value is not a
// valid tag; use NewTag.
type Tag struct {
	text string
}

// NewTag trims s and validates it as a tag.
func NewTag(s string) (Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Tag{}, fmt.Errorf("%w: empty", ErrInvalidTag)
	}
	if strings.Contains(s, "`") {
		return Tag{}, fmt.Errorf("%w: %q contains a backtick", ErrInvalidTag, s)
	}
	if strings.ContainsAny(s, "\r\n") {
		return Tag{}, fmt.Errorf("%w: %q spans lines", ErrInvalidTag, s)
	}
	return Tag{text: s}, nil
}

func (t Tag) String() string { return t.text }

// IsZero reports whether t was not built by NewTag.
func (t Tag) IsZero() bool { return t.text == "" }

// Tags is a set of tags. The zero value is an empty set ready to use.
type Tags struct {
	set map[Tag]struct{}
}

// Add inserts t and reports whether the set changed.
func (ts *Tags) Add(t Tag) bool {
	if ts.Has(t) {
		return false
	}
	if ts.set == nil {
		ts.set = make(map[Tag]struct{})
	}
	ts.set[t] = struct{}{}
	return true
}

// Remove deletes t and reports whether the set changed.
func (ts *Tags) Remove(t Tag) bool {
	if !ts.Has(t) {
		return false
	}
	delete(ts.set, t)
	return true
}

func (ts Tags) Has(t Tag) bool {
	_, ok := ts.set[t]
	return ok
}

func (ts Tags) Len() int { return len(ts.set) }

// Sorted returns the tags ordered by their text.
func (ts Tags) Sorted() []Tag {
	out := make([]Tag, 0, len(ts.set))
	for t := range ts.set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].text < out[j].text })
	return out
}

// Equal reports whether both sets hold the same tags.
func (ts Tags) Equal(other Tags) bool {
	if ts.Len() != other.Len() {
		return false
	}
	for t := range ts.set {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

func (ts Tags) clone() Tags {
	if ts.set == nil {
		return Tags{}
	}
	c := Tags{set: make(map[Tag]struct{}, len(ts.set))}
	for t := range ts.set {
		c.set[t] = struct{}{}
	}
	return c
}
