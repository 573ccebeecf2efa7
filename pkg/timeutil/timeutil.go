// Package timeutil handles the 12-hour clock strings and date keys the
// schedule document is written in.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// ClockLayout is the 12-hour format used everywhere in the document,
// e.g. "8:30 AM", "7:00 PM" (no leading zero on the hour).
const ClockLayout = "3:04 PM"

// DateLayout and MonthLayout are the schedule map key formats.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// ParseClock parses a 12-hour time string into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("bad time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock is the inverse of ParseClock.
func FormatClock(minutes int) string {
	t := time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC)
	return t.Format(ClockLayout)
}

// FormatClockShort renders minutes as "7" or "7:30" for dense calendar cells.
func FormatClockShort(minutes int) string {
	h := minutes / 60 % 12
	if h == 0 {
		h = 12
	}
	if m := minutes % 60; m != 0 {
		return fmt.Sprintf("%d:%02d", h, m)
	}
	return fmt.Sprintf("%d", h)
}

// Slots returns every time from open to close inclusive, stepping by interval
// minutes. If open is after close the sequence is empty; no wraparound.
func Slots(open, close string, interval int) ([]string, error) {
	start, err := ParseClock(open)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(close)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, fmt.Errorf("bad slot interval %d", interval)
	}
	var times []string
	for t := start; t <= end; t += interval {
		times = append(times, FormatClock(t))
	}
	return times, nil
}

// Overlaps reports half-open interval overlap: [aStart,aEnd) against
// [bStart,bEnd). Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return !(aEnd <= bStart || aStart >= bEnd)
}

// WeekdayName returns the lowercase weekday used as an availability and
// store-hours key.
func WeekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// DateKey formats a date as a schedule day key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthKey formats a date as a schedule month key.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// ParseDateKey parses a "YYYY-MM-DD" day key.
func ParseDateKey(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	return t, nil
}

// DaysInMonth returns the day count of the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
