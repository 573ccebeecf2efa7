package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"schedule-bot/internal/domain"
	"schedule-bot/internal/repository/jsonfile"
)

func newTestSchedule(t *testing.T) (*ScheduleService, *EmployeeService) {
	t.Helper()
	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "employees.json"), 10*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	empRepo := jsonfile.NewEmployeeRepo(store)
	schedRepo := jsonfile.NewScheduleRepo(store)
	hoursRepo := jsonfile.NewStoreHoursRepo(store)
	log := zap.NewNop()
	return NewScheduleService(schedRepo, empRepo, hoursRepo, log), NewEmployeeService(empRepo, log)
}

func addJane(t *testing.T, employees *EmployeeService) {
	t.Helper()
	emp, err := employees.CreateEmployee("Jane", "Doe")
	require.NoError(t, err)
	require.NoError(t, employees.SetAvailability(emp.ID, "monday", "9:00 AM", "5:00 PM"))
	require.NoError(t, employees.SetAvailability(emp.ID, "tuesday", "9:00 AM", "5:00 PM"))
}

func TestAddShiftRejectsReversedTimes(t *testing.T) {
	schedule, employees := newTestSchedule(t)
	addJane(t, employees)
	_, err := schedule.AddShift(monday, "Jane Doe", "1:00 PM", "9:00 AM")
	assert.Error(t, err)
}

func TestCheckShiftFeedsBackConflicts(t *testing.T) {
	schedule, employees := newTestSchedule(t)
	addJane(t, employees)

	// Wednesday is a working day for the store but an off day for Jane.
	wednesday := monday.AddDate(0, 0, 2)
	conflicts, err := schedule.CheckShift(ShiftCandidate{
		Employee: "Jane Doe", Date: wednesday, Start: "9:00 AM", End: "1:00 PM",
	})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Jane Doe is not available on Wednesdays", conflicts[0])
}

func TestEditShiftExcludesItselfFromOverlap(t *testing.T) {
	schedule, employees := newTestSchedule(t)
	addJane(t, employees)

	shift, err := schedule.AddShift(monday, "Jane Doe", "9:00 AM", "12:00 PM")
	require.NoError(t, err)

	conflicts, err := schedule.CheckShift(ShiftCandidate{
		Employee: "Jane Doe", Date: monday, Start: "9:00 AM", End: "1:00 PM",
		ExcludeShiftID: shift.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestCopyDayAppliesDespiteConflicts(t *testing.T) {
	schedule, employees := newTestSchedule(t)
	addJane(t, employees)

	_, err := schedule.AddShift(monday, "Jane Doe", "9:00 AM", "1:00 PM")
	require.NoError(t, err)

	// Wednesday is an off day for Jane: the copy still lands, with a warning.
	wednesday := monday.AddDate(0, 0, 2)
	res, err := schedule.CopyDay(monday, wednesday)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "Jane Doe 9:00 AM - 1:00 PM: Jane Doe is not available on Wednesdays", res.Warnings[0])

	shifts, err := schedule.ShiftsOn(wednesday)
	require.NoError(t, err)
	assert.Len(t, shifts, 1)

	// Copying again only finds duplicates.
	res, err = schedule.CopyDay(monday, wednesday)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, res.Warnings)
}

func TestCopyDayRefusesClosedTarget(t *testing.T) {
	schedule, employees := newTestSchedule(t)
	addJane(t, employees)

	_, err := schedule.AddShift(monday, "Jane Doe", "9:00 AM", "1:00 PM")
	require.NoError(t, err)

	sunday := monday.AddDate(0, 0, 6)
	_, err = schedule.CopyDay(monday, sunday)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)

	shifts, err := schedule.ShiftsOn(sunday)
	require.NoError(t, err)
	assert.Empty(t, shifts)
}

func TestPastePlanPartitionsAndApplies(t *testing.T) {
	schedule, employees := newTestSchedule(t)
	addJane(t, employees)
	emp, err := employees.CreateEmployee("John", "Roe")
	require.NoError(t, err)
	require.NoError(t, employees.SetAvailability(emp.ID, "monday", "9:00 AM", "5:00 PM"))

	// Jane works Tuesdays, John does not: one clean, one conflicted.
	_, err = schedule.AddShift(monday, "Jane Doe", "9:00 AM", "1:00 PM")
	require.NoError(t, err)
	_, err = schedule.AddShift(monday, "John Roe", "1:00 PM", "5:00 PM")
	require.NoError(t, err)
	clipboard, err := schedule.ShiftsOn(monday)
	require.NoError(t, err)

	tuesday := monday.AddDate(0, 0, 1)
	plan, err := schedule.PlanPaste(clipboard, tuesday)
	require.NoError(t, err)
	require.Len(t, plan.Clean, 1)
	require.Len(t, plan.Conflicted, 1)
	assert.Equal(t, "Jane Doe", plan.Clean[0].Employee)
	assert.Equal(t, "John Roe", plan.Conflicted[0].Shift.Employee)
	assert.NotEmpty(t, plan.Conflicted[0].Conflicts)

	// Planning never mutates the document.
	shifts, err := schedule.ShiftsOn(tuesday)
	require.NoError(t, err)
	assert.Empty(t, shifts)

	// Conflict-free only.
	res, err := schedule.ApplyPaste(plan, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)

	// Re-applying with the conflicted subset skips the now-duplicate clean one.
	res, err = schedule.ApplyPaste(plan, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Skipped)

	shifts, err = schedule.ShiftsOn(tuesday)
	require.NoError(t, err)
	assert.Len(t, shifts, 2)
}

func TestPastePlanRefusesClosedTarget(t *testing.T) {
	schedule, employees := newTestSchedule(t)
	addJane(t, employees)
	_, err := schedule.AddShift(monday, "Jane Doe", "9:00 AM", "1:00 PM")
	require.NoError(t, err)
	clipboard, err := schedule.ShiftsOn(monday)
	require.NoError(t, err)

	sunday := monday.AddDate(0, 0, 6)
	_, err = schedule.PlanPaste(clipboard, sunday)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}

func TestClearDay(t *testing.T) {
	schedule, employees := newTestSchedule(t)
	addJane(t, employees)
	_, err := schedule.AddShift(monday, "Jane Doe", "9:00 AM", "1:00 PM")
	require.NoError(t, err)
	_, err = schedule.AddShift(monday, "Jane Doe", "2:00 PM", "5:00 PM")
	require.NoError(t, err)

	n, err := schedule.ClearDay(monday)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	shifts, err := schedule.ShiftsOn(monday)
	require.NoError(t, err)
	assert.Empty(t, shifts)

	n, err = schedule.ClearDay(monday)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClosedOn(t *testing.T) {
	schedule, _ := newTestSchedule(t)
	closed, err := schedule.ClosedOn(monday)
	require.NoError(t, err)
	assert.False(t, closed)

	closed, err = schedule.ClosedOn(monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.True(t, closed)
}
