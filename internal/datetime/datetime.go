// Package datetime holds the time helpers shared by sessions and reports:
// whole-second clock reads, the canonical on-disk date format, relative
// user input and elapsed-time rendering.
package datetime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// Layout is the canonical representation written to session files.
	// The offset is always explicit, UTC included.
	Layout = "2006-01-02T15:04:05-07:00"

	// PrettyLayout is used for human-facing output. Older session files
	// also used it for mark headings, so Parse accepts it too.
	PrettyLayout = "2006-01-02 15:04:05 -07:00"

	// TimeLayout renders only the clock part.
	TimeLayout = "15:04:05"
)

// ErrRelativeInput is returned when relative time input cannot be parsed.
var ErrRelativeInput = errors.New("invalid relative time")

// Now returns the current local time truncated to whole seconds.
func Now() time.Time {
	return time.Now().Truncate(time.Second)
}

// Format renders t in the canonical layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// FormatPretty renders t for display.
func FormatPretty(t time.Time) string {
	return t.Format(PrettyLayout)
}

// Parse reads a date written by Format. The legacy pretty layout is
// accepted as a fallback.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(Layout, s)
	if err == nil {
		return t, nil
	}
	if legacy, lerr := time.Parse(PrettyLayout, s); lerr == nil {
		return legacy, nil
	}
	return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
}

// GetTime returns the milliseconds between start and end. A negative span
// means marks are out of order, which is a broken invariant upstream.
func GetTime(start, end time.Time) int64 {
	ms := end.Sub(start).Milliseconds()
	if ms < 0 {
		panic(fmt.Sprintf("datetime: end %s is before start %s", Format(end), Format(start)))
	}
	return ms
}

// GetTimeHR renders milliseconds as "<H>h <M>m <S>s".
func GetTimeHR(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%dh %dm %ds", secs/3600, (secs%3600)/60, secs%60)
}

// StartOfWeek returns Monday 00:00:00 of the week containing t, in t's
// location.
func StartOfWeek(t time.Time) time.Time {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	sinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-sinceMonday, 0, 0, 0, 0, t.Location())
}

// ModifyByRelativeInput applies user input relative to base. Accepted forms:
//
//	2h, -15m, +30s   shift by hours, minutes or seconds
//	13:15, -9:02     set the clock; rolls a day forward (or back for "-")
//	                 when the time is not ahead of (behind) base
//	10, -10          set the minute; rolls an hour the same way
//
// A single leading "-" flips the sign, so "--15s" shifts forward.
func ModifyByRelativeInput(base time.Time, text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	sign := 1
	if strings.HasPrefix(text, "-") {
		text = text[1:]
		sign = -1
	}

	if t, ok, err := shiftByUnit(base, text, sign); ok {
		return t, err
	}
	if t, ok, err := setClock(base, text, sign); ok {
		return t, err
	}
	return setMinute(base, text, sign)
}

func shiftByUnit(base time.Time, text string, sign int) (time.Time, bool, error) {
	if text == "" {
		return time.Time{}, false, nil
	}
	var unit time.Duration
	switch text[len(text)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	default:
		return time.Time{}, false, nil
	}
	n, err := strconv.ParseInt(text[:len(text)-1], 10, 64)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("%w: %q", ErrRelativeInput, text)
	}
	return base.Add(time.Duration(int64(sign)*n) * unit), true, nil
}

func setClock(base time.Time, text string, sign int) (time.Time, bool, error) {
	const sep = ":"
	if len(text) > len("23:59") || strings.Count(text, sep) != 1 ||
		strings.HasPrefix(text, sep) || strings.HasSuffix(text, sep) {
		return time.Time{}, false, nil
	}
	hourText, minuteText, _ := strings.Cut(text, sep)
	hour, err := parseBounded(hourText, 24)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("%w: hour %q", ErrRelativeInput, hourText)
	}
	minute, err := parseBounded(minuteText, 60)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("%w: minute %q", ErrRelativeInput, minuteText)
	}

	y, m, d := base.Date()
	target := time.Date(y, m, d, hour, minute, base.Second(), 0, base.Location())
	return roll(base, target, sign, 24*time.Hour), true, nil
}

func setMinute(base time.Time, text string, sign int) (time.Time, error) {
	minute, err := parseBounded(text, 60)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrRelativeInput, text)
	}
	y, m, d := base.Date()
	target := time.Date(y, m, d, base.Hour(), minute, base.Second(), 0, base.Location())
	return roll(base, target, sign, time.Hour), nil
}

// roll keeps target when it lies on the side of base the sign asks for,
// otherwise moves it by one step in the sign's direction. An unchanged
// time only counts as "ahead".
func roll(base, target time.Time, sign int, step time.Duration) time.Time {
	diff := target.Sub(base)
	keep := sign > 0
	if diff != 0 {
		keep = (sign > 0) == (diff > 0)
	}
	if keep {
		return target
	}
	return target.Add(time.Duration(sign) * step)
}

// parseBounded parses an unsigned decimal below limit. A single "+" prefix
// is tolerated.
func parseBounded(s string, limit uint64) (int, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 32)
	if err != nil {
		return 0, err
	}
	if v >= limit {
		return 0, fmt.Errorf("%d out of range", v)
	}
	return int(v), nil
}
