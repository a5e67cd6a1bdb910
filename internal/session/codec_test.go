package session_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/PatrikHajek/time-tracker/internal/datetime"
	"github.com/PatrikHajek/time-tracker/internal/session"
)

// generateTime produces a whole-second time in an arbitrary fixed offset.
func generateTime(t *rapid.T, label string) time.Time {
	sec := rapid.Int64Range(0, 1_700_000_000).Draw(t, label+"_unix_sec")
	offset := rapid.IntRange(-12*4, 14*4).Draw(t, label+"_offset_quarters") * 15 * 60
	return time.Unix(sec, 0).In(time.FixedZone("", offset))
}

// reservedLines read as headings or labels; Write must refuse or keep them
// so that the document still decodes to the same session.
var reservedLines = []string{"- end", "- skip", "- tag `x`", "- tagging", "# a", "## Marks", "### b", "#### c", "- item"}

func generateContents(t *rapid.T, label string) string {
	n := rapid.IntRange(0, 4).Draw(t, label+"_lines")
	lines := make([]string, n)
	for i := range lines {
		if rapid.IntRange(0, 4).Draw(t, label+"_reserved") == 0 {
			lines[i] = rapid.SampledFrom(reservedLines).Draw(t, label+"_line")
			continue
		}
		lines[i] = rapid.StringMatching(`([a-zA-Z0-9.,!?*#\x60-]( ?[a-zA-Z0-9.,!?*#\x60 -]){0,30})?`).Draw(t, label+"_line")
	}
	return strings.Join(lines, "\n")
}

func generateTag(t *rapid.T) session.Tag {
	text := rapid.StringMatching(`[a-z0-9][a-z0-9 _/.-]{0,15}[a-z0-9]`).Draw(t, "tag")
	tag, err := session.NewTag(text)
	if err != nil {
		t.Fatalf("NewTag(%q): %v", text, err)
	}
	return tag
}

// generateSession builds a session through the mutators only.
func generateSession(t *rapid.T) *session.Session {
	at := generateTime(t, "start")
	s := session.New("", at)

	steps := rapid.IntRange(0, 12).Draw(t, "steps")
	for i := 0; i < steps; i++ {
		switch rapid.IntRange(0, 7).Draw(t, "op") {
		case 0:
			at = at.Add(time.Duration(rapid.Int64Range(0, 36_000).Draw(t, "gap")) * time.Second)
			_ = s.Mark(at)
		case 1:
			at = at.Add(time.Duration(rapid.Int64Range(0, 36_000).Draw(t, "gap")) * time.Second)
			_ = s.Stop(at)
		case 2:
			s.Remark(at)
		case 3:
			s.Unmark()
		case 4:
			s.Skip()
		case 5:
			s.Tag(generateTag(t))
		case 6:
			s.Untag(generateTag(t))
		case 7:
			err := s.Write(generateContents(t, "contents"))
			if errors.Is(err, session.ErrMarkNotEmpty) {
				s.Erase()
			}
		}
	}
	return s
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		original := generateSession(t)

		data, err := session.Encode(original)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		decoded, err := session.Decode(original.Path(), data)
		if err != nil {
			t.Fatalf("Decode: %v\n%s", err, data)
		}
		if !decoded.Equal(original) {
			t.Fatalf("round-trip mismatch\nencoded:\n%s", data)
		}
		for i, m := range decoded.Marks() {
			if got, want := datetime.Format(m.Date()), datetime.Format(original.Marks()[i].Date()); got != want {
				t.Fatalf("mark %d offset changed: got %s, want %s", i, got, want)
			}
		}
	})
}

func TestEncodeIsIdempotentOnCanonicalText(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		canonical, err := session.Encode(generateSession(t))
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		decoded, err := session.Decode("x.md", canonical)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		again, err := session.Encode(decoded)
		if err != nil {
			t.Fatalf("re-Encode: %v", err)
		}
		if string(again) != string(canonical) {
			t.Fatalf("not idempotent\nfirst:\n%s\nsecond:\n%s", canonical, again)
		}
	})
}

func TestEncodeCanonicalLayout(t *testing.T) {
	s := session.New("", time.Date(2002, 5, 8, 12, 0, 0, 0, time.UTC))
	s.Tag(mustTag(t, "zeta"))
	s.Tag(mustTag(t, "alpha"))
	if err := s.Write("did things"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Mark(time.Date(2002, 5, 8, 13, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	s.Skip()
	if err := s.Stop(time.Date(2002, 5, 8, 14, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	want := "# Session\n" +
		"\n" +
		"## Marks\n" +
		"\n" +
		"### 2002-05-08T12:00:00+00:00\n" +
		"\n" +
		"- tag `alpha`\n" +
		"- tag `zeta`\n" +
		"\n" +
		"did things\n" +
		"\n" +
		"### 2002-05-08T13:00:00+00:00\n" +
		"\n" +
		"- skip\n" +
		"\n" +
		"### 2002-05-08T14:00:00+00:00\n" +
		"\n" +
		"- end\n"

	got, err := session.Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(got) != want {
		t.Errorf("Encode mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeRejectsEmptySession(t *testing.T) {
	if _, err := session.Encode(&session.Session{}); !errors.Is(err, session.ErrEncode) {
		t.Errorf("got %v, want ErrEncode", err)
	}
}

func TestDecodeLenientInput(t *testing.T) {
	doc := "\r\n# Session\r\n" +
		"## Marks\r\n" +
		"### 2002-05-08 12:00:00 +02:00\r\n" +
		"- tag `b`\r\n" +
		"- skip\r\n" +
		"- tag `a`\r\n" +
		"- tag `a`\r\n" +
		"\r\n" +
		"- a list item\r\n" +
		"#### sub heading\r\n" +
		"### 2002-05-08T13:00:00+02:00\r\n" +
		"- plain list\r\n" +
		"## Notes\r\n" +
		"### not a mark\r\n"

	s, err := session.Decode("legacy.md", []byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	marks := s.Marks()
	if len(marks) != 2 {
		t.Fatalf("got %d marks, want 2", len(marks))
	}

	first := marks[0]
	if first.Attribute() != session.AttributeSkip {
		t.Errorf("attribute = %v, want skip", first.Attribute())
	}
	if tags := first.Tags(); len(tags) != 2 || tags[0].String() != "a" || tags[1].String() != "b" {
		t.Errorf("tags = %v, want [a b]", tags)
	}
	if first.Contents() != "- a list item\n#### sub heading" {
		t.Errorf("contents = %q", first.Contents())
	}
	if !first.Date().Equal(time.Date(2002, 5, 8, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", first.Date())
	}

	if got := marks[1].Contents(); got != "- plain list" {
		t.Errorf("second contents = %q", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	const head = "# Session\n\n## Marks\n\n"
	tests := []struct {
		name string
		doc  string
		want error
		line int
	}{
		{"empty", "", session.ErrMalformedHeader, 1},
		{"no title", "Session\n\n## Marks\n", session.ErrMalformedHeader, 1},
		{"title without space", "#Session\n## Marks\n", session.ErrMalformedHeader, 1},
		{"no marks section", "# Session\n\n## Notes\n\n### 2002-05-08T12:00:00+00:00\n", session.ErrMalformedHeader, 0},
		{"no marks", head, session.ErrNoMarks, 0},
		{"marks outside section", "# Session\n\n## Marks\n\n## Other\n\n### 2002-05-08T12:00:00+00:00\n", session.ErrNoMarks, 0},
		{"bad date", head + "### yesterday\n", session.ErrMarkDate, 5},
		{"empty date", head + "###\n", session.ErrMarkDate, 5},
		{"end and skip", head + "### 2002-05-08T12:00:00+00:00\n\n- end\n- skip\n", session.ErrAttributeConflict, 8},
		{"end twice", head + "### 2002-05-08T12:00:00+00:00\n\n- end\n- tag `x`\n- end\n", session.ErrAttributeConflict, 9},
		{"unknown label", head + "### 2002-05-08T12:00:00+00:00\n\n- end\n- stop\n", session.ErrMalformedLabel, 8},
		{"empty tag", head + "### 2002-05-08T12:00:00+00:00\n\n- tag ``\n", session.ErrMalformedLabel, 7},
		{"unquoted tag", head + "### 2002-05-08T12:00:00+00:00\n\n- tag review\n", session.ErrMalformedLabel, 7},
		{"backtick in tag", head + "### 2002-05-08T12:00:00+00:00\n\n- tag `a`b`\n", session.ErrMalformedLabel, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := session.Decode("bad.md", []byte(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			var de *session.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not a *DecodeError", err)
			}
			if de.Path != "bad.md" {
				t.Errorf("Path = %q", de.Path)
			}
			if de.Line != tt.line {
				t.Errorf("Line = %d, want %d", de.Line, tt.line)
			}
		})
	}
}

func TestDecodeIndentedTitle(t *testing.T) {
	doc := "\n   # Session\n\n## Marks\n\n### 2002-05-08T12:00:00+02:00\n"
	s, err := session.Decode("indented.md", []byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("got %d marks, want 1", s.Len())
	}
}
