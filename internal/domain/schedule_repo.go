package domain

import (
	"time"

	"schedule-bot/internal/model"
)

type ScheduleRepo interface {
	ShiftsOn(date time.Time) ([]model.Shift, error)
	MonthShifts(monthKey string) (map[string][]model.Shift, error)
	AddShift(date time.Time, s model.Shift) (model.Shift, error)
	UpdateShift(date time.Time, s model.Shift) error
	RemoveShift(date time.Time, shiftID string) (model.Shift, error)
	// ClearDay drops every shift on the date and prunes the emptied containers.
	ClearDay(date time.Time) (int, error)
}

type StoreHoursRepo interface {
	WeekHours() (model.WeekHours, error)
	// HoursFor returns nil when the store is closed on that date's weekday.
	HoursFor(date time.Time) (*model.DayHours, error)
	SetDayHours(weekday string, hours *model.DayHours) error
}
