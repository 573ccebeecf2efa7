package jsonfile

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"schedule-bot/internal/domain"
	"schedule-bot/internal/model"
	"schedule-bot/pkg/timeutil"
)

type ScheduleRepo struct {
	st *Store
}

func NewScheduleRepo(st *Store) *ScheduleRepo {
	return &ScheduleRepo{st: st}
}

func (r *ScheduleRepo) ShiftsOn(date time.Time) ([]model.Shift, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	shifts := r.st.doc.Schedule[timeutil.MonthKey(date)][timeutil.DateKey(date)]
	out := make([]model.Shift, len(shifts))
	copy(out, shifts)
	return out, nil
}

func (r *ScheduleRepo) MonthShifts(monthKey string) (map[string][]model.Shift, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make(map[string][]model.Shift, len(r.st.doc.Schedule[monthKey]))
	for day, shifts := range r.st.doc.Schedule[monthKey] {
		cp := make([]model.Shift, len(shifts))
		copy(cp, shifts)
		out[day] = cp
	}
	return out, nil
}

// AddShift appends the shift to the day's list and saves synchronously. A
// missing ID gets a fresh one.
func (r *ScheduleRepo) AddShift(date time.Time, s model.Shift) (model.Shift, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	monthKey, dayKey := timeutil.MonthKey(date), timeutil.DateKey(date)
	if r.st.doc.Schedule[monthKey] == nil {
		r.st.doc.Schedule[monthKey] = map[string][]model.Shift{}
	}
	r.st.doc.Schedule[monthKey][dayKey] = append(r.st.doc.Schedule[monthKey][dayKey], s)
	if err := r.st.saveNowLocked(); err != nil {
		return model.Shift{}, err
	}
	return s, nil
}

func (r *ScheduleRepo) UpdateShift(date time.Time, s model.Shift) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	dayKey := timeutil.DateKey(date)
	shifts := r.st.doc.Schedule[timeutil.MonthKey(date)][dayKey]
	for i := range shifts {
		if shifts[i].ID == s.ID {
			shifts[i] = s
			return r.st.saveNowLocked()
		}
	}
	return fmt.Errorf("shift %s on %s: %w", s.ID, dayKey, domain.ErrShiftNotFound)
}

func (r *ScheduleRepo) RemoveShift(date time.Time, shiftID string) (model.Shift, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	monthKey, dayKey := timeutil.MonthKey(date), timeutil.DateKey(date)
	days := r.st.doc.Schedule[monthKey]
	shifts := days[dayKey]
	for i, s := range shifts {
		if s.ID != shiftID {
			continue
		}
		shifts = append(shifts[:i], shifts[i+1:]...)
		if len(shifts) == 0 {
			delete(days, dayKey)
			if len(days) == 0 {
				delete(r.st.doc.Schedule, monthKey)
			}
		} else {
			days[dayKey] = shifts
		}
		if err := r.st.saveNowLocked(); err != nil {
			return model.Shift{}, err
		}
		return s, nil
	}
	return model.Shift{}, fmt.Errorf("shift %s on %s: %w", shiftID, dayKey, domain.ErrShiftNotFound)
}

func (r *ScheduleRepo) ClearDay(date time.Time) (int, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	monthKey, dayKey := timeutil.MonthKey(date), timeutil.DateKey(date)
	days := r.st.doc.Schedule[monthKey]
	n := len(days[dayKey])
	if n == 0 {
		return 0, nil
	}
	delete(days, dayKey)
	if len(days) == 0 {
		delete(r.st.doc.Schedule, monthKey)
	}
	if err := r.st.saveNowLocked(); err != nil {
		return 0, err
	}
	return n, nil
}
