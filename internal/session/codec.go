package session

import (
	"fmt"
	"strings"

	"github.com/PatrikHajek/time-tracker/internal/datetime"
)

// Document structure:
//
//	# Session
//
//	## Marks
//
//	### 2002-05-08T12:00:00+02:00
//
//	- end
//	- tag `review`
//
//	Free text contents.
const (
	documentTitle  = "# Session"
	marksHeading   = "## Marks"
	markPrefix     = "### "
	labelPrefix    = "- "
	tagLabelPrefix = "- tag `"
	tagLabelSuffix = "`"
)

// Encode renders s in canonical form.
func Encode(s *Session) ([]byte, error) {
	if len(s.marks) == 0 {
		return nil, fmt.Errorf("%w: %s has no marks", ErrEncode, s.path)
	}

	var b strings.Builder
	b.WriteString(documentTitle + "\n\n" + marksHeading + "\n")
	for i, m := range s.marks {
		b.WriteString("\n")
		if err := encodeMark(&b, m); err != nil {
			return nil, fmt.Errorf("%w: mark %d: %v", ErrEncode, i+1, err)
		}
	}
	return []byte(b.String()), nil
}

// EncodeMark renders a single mark block as it appears in a document.
func EncodeMark(m Mark) (string, error) {
	var b strings.Builder
	if err := encodeMark(&b, m); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return b.String(), nil
}

func encodeMark(b *strings.Builder, m Mark) error {
	fmt.Fprintf(b, "%s%s\n", markPrefix, datetime.Format(m.date))

	tags := m.tags.Sorted()
	if m.attribute != AttributeNone || len(tags) > 0 {
		b.WriteString("\n")
	}
	if label := m.attribute.label(); label != "" {
		b.WriteString(labelPrefix + label + "\n")
	}
	for _, t := range tags {
		if t.IsZero() {
			return ErrInvalidTag
		}
		b.WriteString(tagLabelPrefix + t.text + tagLabelSuffix + "\n")
	}

	if m.contents != "" {
		if err := checkContents(m.contents); err != nil {
			return err
		}
		b.WriteString("\n" + m.contents + "\n")
	}
	return nil
}

// checkContents rejects contents that would decode as something else: a
// heading that ends the mark or the marks section, or a first line that
// starts a label run.
func checkContents(contents string) error {
	lines := strings.Split(contents, "\n")
	if isLabelLike(lines[0]) {
		return fmt.Errorf("%w: first line %q reads as a label", ErrContentsNotEncodable, lines[0])
	}
	for i, l := range lines {
		if lvl := headingLevel(l); lvl > 0 && lvl <= headingLevel(markPrefix) {
			return fmt.Errorf("%w: line %d %q is a level %d heading", ErrContentsNotEncodable, i+1, l, lvl)
		}
	}
	return nil
}

// Decode parses a session document read from path.
func Decode(path string, raw []byte) (*Session, error) {
	fail := func(line int, err error) (*Session, error) {
		return nil, &DecodeError{Path: path, Line: line, Err: err}
	}

	lines := strings.Split(string(raw), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	// Skip leading blank lines while keeping 1-based line numbers.
	offset := 0
	for offset < len(lines) && strings.TrimSpace(lines[offset]) == "" {
		offset++
	}
	if offset == len(lines) {
		return fail(1, ErrMalformedHeader)
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[offset]), "# ") {
		return fail(offset+1, ErrMalformedHeader)
	}

	start, end, ok := sectionBounds(lines, offset, marksHeading)
	if !ok {
		return fail(0, fmt.Errorf("%w: missing %q", ErrMalformedHeader, marksHeading))
	}

	s := &Session{path: path}
	for i := start; i < end; {
		if headingLevel(lines[i]) != 3 {
			i++
			continue
		}
		next := i + 1
		for next < end && headingLevel(lines[next]) != 3 {
			next++
		}
		m, err := decodeMark(lines[i:next])
		if err != nil {
			return fail(i+1+err.line, err.err)
		}
		s.marks = append(s.marks, m)
		i = next
	}

	if len(s.marks) == 0 {
		return fail(0, ErrNoMarks)
	}
	return s, nil
}

// sectionBounds returns the line range of the body of the section whose
// heading line is exactly heading. The body ends before the next heading
// of equal or lower level.
func sectionBounds(lines []string, from int, heading string) (start, end int, ok bool) {
	level := headingLevel(heading)
	for i := from; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") != heading {
			continue
		}
		end = i + 1
		for end < len(lines) {
			if l := headingLevel(lines[end]); l > 0 && l <= level {
				break
			}
			end++
		}
		return i + 1, end, true
	}
	return 0, 0, false
}

// headingLevel returns the length of the leading '#' run when it is
// followed by a space or the end of the line, and zero otherwise.
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || (n < len(line) && line[n] != ' ') {
		return 0
	}
	return n
}

// blockError locates a failure relative to the first line of a mark block.
type blockError struct {
	line int
	err  error
}

func decodeMark(block []string) (Mark, *blockError) {
	dateText := strings.TrimPrefix(strings.TrimRight(block[0], " \t"), "###")
	date, err := datetime.Parse(dateText)
	if err != nil {
		return Mark{}, &blockError{0, fmt.Errorf("%w: %v", ErrMarkDate, err)}
	}
	m := Mark{date: date}

	i := 1
	for i < len(block) && strings.TrimSpace(block[i]) == "" {
		i++
	}

	// A label run starts only with a line that looks like a label, so that
	// contents beginning with an ordinary list item stay contents.
	if i < len(block) && isLabelLike(block[i]) {
		hasAttribute := false
		for ; i < len(block) && strings.HasPrefix(block[i], labelPrefix); i++ {
			line := strings.TrimRight(block[i], " \t")
			if attr, ok := parseAttribute(line); ok {
				if hasAttribute {
					return Mark{}, &blockError{i, ErrAttributeConflict}
				}
				hasAttribute = true
				m.attribute = attr
				continue
			}
			tag, err := parseTagLabel(line)
			if err != nil {
				return Mark{}, &blockError{i, err}
			}
			m.tags.Add(tag)
		}
	}

	m.contents = strings.Join(trimBlankLines(block[i:]), "\n")
	return m, nil
}

func isLabelLike(line string) bool {
	line = strings.TrimRight(line, " \t")
	if _, ok := parseAttribute(line); ok {
		return true
	}
	return strings.HasPrefix(line, "- tag")
}

func parseAttribute(line string) (Attribute, bool) {
	switch strings.TrimPrefix(line, labelPrefix) {
	case AttributeStop.label():
		return AttributeStop, true
	case AttributeSkip.label():
		return AttributeSkip, true
	}
	return AttributeNone, false
}

func parseTagLabel(line string) (Tag, error) {
	if !strings.HasPrefix(line, tagLabelPrefix) || !strings.HasSuffix(line, tagLabelSuffix) ||
		len(line) < len(tagLabelPrefix)+len(tagLabelSuffix) {
		return Tag{}, fmt.Errorf("%w: %q", ErrMalformedLabel, line)
	}
	text := line[len(tagLabelPrefix) : len(line)-len(tagLabelSuffix)]
	tag, err := NewTag(text)
	if err != nil {
		return Tag{}, fmt.Errorf("%w: %q: %v", ErrMalformedLabel, line, err)
	}
	return tag, nil
}
