package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"turnos/utils"
)

// MinutesPerDay bounds every Clock value.
const MinutesPerDay = 24 * 60

// DateLayout is how appointment dates are keyed in storage and on the wire.
const DateLayout = "2006-01-02"

// Clock is a wall-clock time of day in minutes since midnight.
// No date and no timezone are attached.
type Clock int

// ParseClock parses "H:MM" or "HH:MM" (24h).
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if !utils.IsHHMM(s) {
		return 0, utils.InvalidInput("invalid time %q, expected HH:MM", s)
	}
	hh, mm, _ := strings.Cut(s, ":")
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	return Clock(h*60 + m), nil
}

// MustClock is ParseClock for literals known to be valid.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String formats c as zero-padded "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Add returns c shifted by minutes. The result may pass midnight; callers
// compare it against a day end rather than wrapping it.
func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

// Window is the half-open interval [Start, End).
type Window struct {
	Start Clock
	End   Clock
}

// ParseWindow parses both bounds and rejects empty or inverted ranges.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	if e <= s {
		return Window{}, utils.InvalidInput("end time %s must be after start time %s", e, s)
	}
	return Window{Start: s, End: e}, nil
}

// Overlaps uses the half-open test, so windows that only touch do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && w.End > o.Start
}

// Contains reports whether o lies entirely inside w.
func (w Window) Contains(o Window) bool {
	return o.Start >= w.Start && o.End <= w.End
}

func (w Window) Minutes() int {
	return int(w.End - w.Start)
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// ParseDate accepts "YYYY-MM-DD" or an RFC 3339 timestamp. For timestamps the
// calendar date is taken as written; no timezone conversion is applied.
// The result is that date at 00:00 UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, utils.InvalidInput("date is required")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, utils.InvalidInput("invalid date %q, expected YYYY-MM-DD", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// NormalizeDate parses s and formats it back as "YYYY-MM-DD".
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}
