package jsonfile

import (
	"time"

	"schedule-bot/internal/model"
	"schedule-bot/pkg/timeutil"
)

type StoreHoursRepo struct {
	st *Store
}

func NewStoreHoursRepo(st *Store) *StoreHoursRepo {
	return &StoreHoursRepo{st: st}
}

func (r *StoreHoursRepo) WeekHours() (model.WeekHours, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make(model.WeekHours, len(r.st.doc.StoreHours))
	for day, h := range r.st.doc.StoreHours {
		if h == nil {
			out[day] = nil
			continue
		}
		cp := *h
		out[day] = &cp
	}
	return out, nil
}

func (r *StoreHoursRepo) HoursFor(date time.Time) (*model.DayHours, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	h := r.st.doc.StoreHours[timeutil.WeekdayName(date)]
	if h == nil {
		return nil, nil
	}
	cp := *h
	return &cp, nil
}

// SetDayHours updates one weekday; nil marks the day closed.
func (r *StoreHoursRepo) SetDayHours(weekday string, hours *model.DayHours) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.doc.StoreHours[weekday] = hours
	r.st.scheduleSave()
	return nil
}
