package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"schedule-bot/internal/domain"
	"schedule-bot/internal/model"
	"schedule-bot/pkg/timeutil"
)

// SlotInterval is the granularity of the generated time pickers, in minutes.
// Validation works on exact times; this only limits what the pickers offer.
const SlotInterval = 30

type StoreHoursService struct {
	Repo domain.StoreHoursRepo
	Log  *zap.Logger
}

func NewStoreHoursService(repo domain.StoreHoursRepo, log *zap.Logger) *StoreHoursService {
	return &StoreHoursService{Repo: repo, Log: log}
}

func (s *StoreHoursService) WeekHours() (model.WeekHours, error) {
	return s.Repo.WeekHours()
}

func (s *StoreHoursService) SetOpen(weekday, open, close string) error {
	if !validWeekday(weekday) {
		return fmt.Errorf("unknown weekday %q", weekday)
	}
	if err := checkTimePair(open, close); err != nil {
		return err
	}
	if err := s.Repo.SetDayHours(weekday, &model.DayHours{open, close}); err != nil {
		return err
	}
	s.Log.Info("store hours set", zap.String("weekday", weekday), zap.String("open", open), zap.String("close", close))
	return nil
}

func (s *StoreHoursService) SetClosed(weekday string) error {
	if !validWeekday(weekday) {
		return fmt.Errorf("unknown weekday %q", weekday)
	}
	if err := s.Repo.SetDayHours(weekday, nil); err != nil {
		return err
	}
	s.Log.Info("store day closed", zap.String("weekday", weekday))
	return nil
}

// SlotsFor generates the pickable times for a date from that weekday's store
// hours. A closed day returns ErrStoreClosed.
func (s *StoreHoursService) SlotsFor(date time.Time) ([]string, error) {
	hours, err := s.Repo.HoursFor(date)
	if err != nil {
		return nil, err
	}
	if hours == nil {
		return nil, fmt.Errorf("%s: %w", capitalize(timeutil.WeekdayName(date)), domain.ErrStoreClosed)
	}
	return timeutil.Slots(hours.Open(), hours.Close(), SlotInterval)
}
