package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"12:00 AM": 0,
		"8:30 AM":  8*60 + 30,
		"12:00 PM": 12 * 60,
		"7:00 PM":  19 * 60,
		"11:59 PM": 23*60 + 59,
	}
	for s, want := range cases {
		got, err := ParseClock(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	for _, bad := range []string{"", "25:00 AM", "7:00", "seven", "7:00 XM"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestClockRoundTrip(t *testing.T) {
	for _, s := range []string{"12:00 AM", "12:30 AM", "1:00 AM", "9:00 AM", "11:45 AM", "12:00 PM", "3:04 PM", "11:59 PM"} {
		m, err := ParseClock(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatClock(m))
	}
}

func TestFormatClockShort(t *testing.T) {
	assert.Equal(t, "7", FormatClockShort(19*60))
	assert.Equal(t, "7:30", FormatClockShort(19*60+30))
	assert.Equal(t, "12", FormatClockShort(0))
	assert.Equal(t, "12", FormatClockShort(12*60))
	assert.Equal(t, "9:05", FormatClockShort(9*60+5))
}

func TestSlots(t *testing.T) {
	got, err := Slots("9:00 AM", "11:00 AM", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"9:00 AM", "9:30 AM", "10:00 AM", "10:30 AM", "11:00 AM"}, got)

	// Single-point range is inclusive.
	got, err = Slots("9:00 AM", "9:00 AM", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"9:00 AM"}, got)

	// Close before open produces nothing, no wraparound.
	got, err = Slots("5:00 PM", "9:00 AM", 30)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Slots("bogus", "9:00 AM", 30)
	assert.Error(t, err)
	_, err = Slots("9:00 AM", "5:00 PM", 0)
	assert.Error(t, err)
}

func TestOverlaps(t *testing.T) {
	nine, noon := 9*60, 12*60
	one, three := 13*60, 15*60

	// Touching endpoints do not overlap.
	assert.False(t, Overlaps(nine, noon, noon, three))
	assert.False(t, Overlaps(noon, three, nine, noon))

	// One minute past the boundary does.
	assert.True(t, Overlaps(nine, noon+1, noon, three))
	assert.True(t, Overlaps(noon, three, nine, noon+1))

	// Containment and disjoint, both directions.
	assert.True(t, Overlaps(nine, three, noon, one))
	assert.True(t, Overlaps(noon, one, nine, three))
	assert.False(t, Overlaps(nine, noon, one, three))
}

func TestWeekdayName(t *testing.T) {
	// 2025-06-02 is a Monday.
	mon := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "monday", WeekdayName(mon))
	assert.Equal(t, "sunday", WeekdayName(mon.AddDate(0, 0, 6)))
}

func TestDateKeys(t *testing.T) {
	d := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-02", DateKey(d))
	assert.Equal(t, "2025-06", MonthKey(d))

	back, err := ParseDateKey("2025-06-02")
	require.NoError(t, err)
	assert.True(t, back.Equal(d))

	_, err = ParseDateKey("06/02/2025")
	assert.Error(t, err)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2025, 1))
	assert.Equal(t, 28, DaysInMonth(2025, 2))
	assert.Equal(t, 29, DaysInMonth(2024, 2))
	assert.Equal(t, 30, DaysInMonth(2025, 6))
}
