package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"schedule-bot/internal/domain"
	"schedule-bot/internal/model"
	"schedule-bot/pkg/timeutil"
)

type EmployeeService struct {
	Repo domain.EmployeeRepo
	Log  *zap.Logger
}

func NewEmployeeService(repo domain.EmployeeRepo, log *zap.Logger) *EmployeeService {
	return &EmployeeService{Repo: repo, Log: log}
}

func (s *EmployeeService) GetAllEmployees() ([]model.Employee, error) {
	return s.Repo.GetAllEmployees()
}

func (s *EmployeeService) GetEmployeeByID(id int) (model.Employee, error) {
	return s.Repo.GetEmployeeByID(id)
}

func (s *EmployeeService) GetEmployeeByName(name string) (model.Employee, error) {
	return s.Repo.GetEmployeeByName(name)
}

func (s *EmployeeService) CreateEmployee(first, last string) (model.Employee, error) {
	if strings.TrimSpace(first) == "" && strings.TrimSpace(last) == "" {
		return model.Employee{}, fmt.Errorf("at least one name field must be filled")
	}
	emp, err := s.Repo.CreateEmployee(strings.TrimSpace(first), strings.TrimSpace(last))
	if err != nil {
		return model.Employee{}, err
	}
	s.Log.Info("employee created", zap.Int("id", emp.ID), zap.String("name", emp.Name))
	return emp, nil
}

func (s *EmployeeService) RenameEmployee(id int, first, last string) (model.Employee, error) {
	if strings.TrimSpace(first) == "" && strings.TrimSpace(last) == "" {
		return model.Employee{}, fmt.Errorf("at least one name field must be filled")
	}
	emp, err := s.Repo.RenameEmployee(id, strings.TrimSpace(first), strings.TrimSpace(last))
	if err != nil {
		return model.Employee{}, err
	}
	s.Log.Info("employee renamed", zap.Int("id", id), zap.String("name", emp.Name))
	return emp, nil
}

func (s *EmployeeService) DeleteEmployee(id int) (int, error) {
	removed, err := s.Repo.DeleteEmployee(id)
	if err != nil {
		return 0, err
	}
	s.Log.Info("employee deleted", zap.Int("id", id), zap.Int("shifts_removed", removed))
	return removed, nil
}

// SetAvailability stores a weekday working window; start must precede end.
func (s *EmployeeService) SetAvailability(id int, weekday, start, end string) error {
	if !validWeekday(weekday) {
		return fmt.Errorf("unknown weekday %q", weekday)
	}
	if err := checkTimePair(start, end); err != nil {
		return err
	}
	emp, err := s.Repo.GetEmployeeByID(id)
	if err != nil {
		return err
	}
	if emp.Availability == nil {
		emp.Availability = model.Availability{}
	}
	emp.Availability[weekday] = []string{start, end}
	return s.Repo.UpdateEmployee(emp)
}

// SetDayOff marks a weekday as the ["off"] sentinel.
func (s *EmployeeService) SetDayOff(id int, weekday string) error {
	if !validWeekday(weekday) {
		return fmt.Errorf("unknown weekday %q", weekday)
	}
	emp, err := s.Repo.GetEmployeeByID(id)
	if err != nil {
		return err
	}
	if emp.Availability == nil {
		emp.Availability = model.Availability{}
	}
	emp.Availability[weekday] = []string{"off"}
	return s.Repo.UpdateEmployee(emp)
}

// AddTimeOff appends a requested-time-off entry. Partial entries must carry a
// well-formed "start - end" range; full entries must not carry one.
func (s *EmployeeService) AddTimeOff(id int, entry model.TimeOffEntry) error {
	if _, err := timeutil.ParseDateKey(entry.Date); err != nil {
		return err
	}
	switch entry.Type {
	case model.TimeOffFull:
		entry.Times = ""
	case model.TimeOffPartial:
		start, end, ok := parseTimeOffRange(entry.Times)
		if !ok {
			return fmt.Errorf("bad partial time-off range %q", entry.Times)
		}
		if end <= start {
			return fmt.Errorf("time-off end must be after start")
		}
	default:
		return fmt.Errorf("unknown time-off type %q", entry.Type)
	}
	emp, err := s.Repo.GetEmployeeByID(id)
	if err != nil {
		return err
	}
	emp.RequestedTimeOff = append(emp.RequestedTimeOff, entry)
	return s.Repo.UpdateEmployee(emp)
}

// RemoveTimeOff drops the entry at the position shown in the roster view.
func (s *EmployeeService) RemoveTimeOff(id, index int) error {
	emp, err := s.Repo.GetEmployeeByID(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(emp.RequestedTimeOff) {
		return fmt.Errorf("no time-off entry at %d", index)
	}
	emp.RequestedTimeOff = append(emp.RequestedTimeOff[:index], emp.RequestedTimeOff[index+1:]...)
	return s.Repo.UpdateEmployee(emp)
}

func validWeekday(weekday string) bool {
	for _, d := range model.Weekdays {
		if d == weekday {
			return true
		}
	}
	return false
}
