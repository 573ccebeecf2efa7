package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedule-bot/internal/model"
)

// monday is 2025-06-02.
var monday = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

func jane() model.Employee {
	avail := model.Availability{}
	for _, d := range model.Weekdays {
		avail[d] = []string{"off"}
	}
	avail["monday"] = []string{"9:00 AM", "5:00 PM"}
	return model.Employee{
		ID:           1,
		Name:         "Jane Doe",
		FirstName:    "Jane",
		LastName:     "Doe",
		Availability: avail,
	}
}

func TestValidateShiftClean(t *testing.T) {
	ok, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "9:00 AM", End: "1:00 PM",
	}, []model.Employee{jane()}, nil)
	assert.True(t, ok)
	assert.Empty(t, conflicts)
}

func TestValidateShiftUnknownEmployee(t *testing.T) {
	ok, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Nobody", Date: monday, Start: "9:00 AM", End: "1:00 PM",
	}, []model.Employee{jane()}, nil)
	assert.False(t, ok)
	require.Len(t, conflicts, 1)
	assert.Contains(t, conflicts[0], `employee "Nobody" not found`)
}

func TestValidateShiftBadTimes(t *testing.T) {
	_, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "25:00", End: "1:00 PM",
	}, []model.Employee{jane()}, nil)
	require.Len(t, conflicts, 1)
	assert.Contains(t, conflicts[0], "not a valid time")

	_, conflicts = ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "1:00 PM", End: "9:00 AM",
	}, []model.Employee{jane()}, nil)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "end time must be after start time", conflicts[0])
}

func TestValidateShiftFullDayOff(t *testing.T) {
	emp := jane()
	emp.RequestedTimeOff = []model.TimeOffEntry{{Type: model.TimeOffFull, Date: "2025-06-02"}}
	ok, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "9:00 AM", End: "1:00 PM",
	}, []model.Employee{emp}, nil)
	assert.False(t, ok)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Jane Doe requested this entire day off", conflicts[0])
}

func TestValidateShiftPartialDayOff(t *testing.T) {
	emp := jane()
	emp.RequestedTimeOff = []model.TimeOffEntry{{
		Type: model.TimeOffPartial, Date: "2025-06-02", Times: "12:00 PM - 3:00 PM",
	}}

	// Overlapping the requested window conflicts.
	_, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "9:00 AM", End: "1:00 PM",
	}, []model.Employee{emp}, nil)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Requested partial day off (12:00 PM - 3:00 PM)", conflicts[0])

	// A shift ending exactly where the request starts does not.
	ok, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "9:00 AM", End: "12:00 PM",
	}, []model.Employee{emp}, nil)
	assert.True(t, ok)
	assert.Empty(t, conflicts)
}

func TestValidateShiftMalformedPartialTreatedAsFullDay(t *testing.T) {
	emp := jane()
	emp.RequestedTimeOff = []model.TimeOffEntry{{
		Type: model.TimeOffPartial, Date: "2025-06-02", Times: "garbage",
	}}
	_, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "9:00 AM", End: "10:00 AM",
	}, []model.Employee{emp}, nil)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Jane Doe requested this entire day off", conflicts[0])
}

func TestValidateShiftDayOffAvailability(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	_, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: tuesday, Start: "9:00 AM", End: "1:00 PM",
	}, []model.Employee{jane()}, nil)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Jane Doe is not available on Tuesdays", conflicts[0])
}

func TestValidateShiftOutsideAvailabilityWindow(t *testing.T) {
	// Starting before and ending after the window are two separate conflicts.
	_, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "8:00 AM", End: "6:00 PM",
	}, []model.Employee{jane()}, nil)
	require.Len(t, conflicts, 2)
	assert.Equal(t, "Shift starts at 8:00 AM but Jane Doe is only available from 9:00 AM", conflicts[0])
	assert.Equal(t, "Shift ends at 6:00 PM but Jane Doe is only available until 5:00 PM", conflicts[1])
}

func TestValidateShiftMalformedAvailability(t *testing.T) {
	emp := jane()
	emp.Availability["monday"] = []string{"9:00 AM", "whenever"}
	_, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "9:00 AM", End: "1:00 PM",
	}, []model.Employee{emp}, nil)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Jane Doe's availability for monday is malformed", conflicts[0])
}

func TestValidateShiftOverlap(t *testing.T) {
	existing := []model.Shift{
		{ID: "a", Employee: "Jane Doe", Start: "9:00 AM", End: "12:00 PM"},
		{ID: "b", Employee: "John Roe", Start: "9:00 AM", End: "12:00 PM"},
	}

	// Touching endpoints back to back is fine.
	ok, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "12:00 PM", End: "3:00 PM",
	}, []model.Employee{jane()}, existing)
	assert.True(t, ok)
	assert.Empty(t, conflicts)

	// One minute of overlap conflicts; another employee's shift never does.
	_, conflicts = ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "11:00 AM", End: "3:00 PM",
	}, []model.Employee{jane()}, existing)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Overlaps with existing shift (9:00 AM - 12:00 PM)", conflicts[0])
}

func TestValidateShiftEditExcludesSelf(t *testing.T) {
	existing := []model.Shift{{ID: "a", Employee: "Jane Doe", Start: "9:00 AM", End: "12:00 PM"}}
	ok, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "9:00 AM", End: "1:00 PM", ExcludeShiftID: "a",
	}, []model.Employee{jane()}, existing)
	assert.True(t, ok)
	assert.Empty(t, conflicts)
}

func TestValidateShiftUnreadableExistingTimes(t *testing.T) {
	existing := []model.Shift{{ID: "a", Employee: "Jane Doe", Start: "soon", End: "later"}}
	_, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "9:00 AM", End: "1:00 PM",
	}, []model.Employee{jane()}, existing)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Existing shift (soon - later) has unreadable times", conflicts[0])
}

func TestValidateShiftAccumulatesAcrossRules(t *testing.T) {
	emp := jane()
	emp.RequestedTimeOff = []model.TimeOffEntry{{Type: model.TimeOffFull, Date: "2025-06-02"}}
	existing := []model.Shift{{ID: "a", Employee: "Jane Doe", Start: "9:00 AM", End: "12:00 PM"}}
	_, conflicts := ValidateShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "8:00 AM", End: "10:00 AM",
	}, []model.Employee{emp}, existing)
	// Day off + window start violation + overlap, all reported together.
	require.Len(t, conflicts, 3)
}
