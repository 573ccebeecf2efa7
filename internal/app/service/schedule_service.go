package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"schedule-bot/internal/domain"
	"schedule-bot/internal/model"
	"schedule-bot/pkg/timeutil"
)

// ScheduleService applies the conflict-resolution policies on top of the
// validator. The three call paths intentionally behave differently: single
// add/edit blocks until the caller confirms, CopyDay applies everything
// non-duplicate and reports conflicts afterwards, and the paste pair makes the
// caller choose what to do with the conflicting subset.
type ScheduleService struct {
	Shifts    domain.ScheduleRepo
	Employees domain.EmployeeRepo
	Hours     domain.StoreHoursRepo
	Log       *zap.Logger
}

func NewScheduleService(shifts domain.ScheduleRepo, employees domain.EmployeeRepo, hours domain.StoreHoursRepo, log *zap.Logger) *ScheduleService {
	return &ScheduleService{Shifts: shifts, Employees: employees, Hours: hours, Log: log}
}

// CheckShift validates a candidate against a snapshot of the current document.
// It is the single validation entry point for both live feedback and the
// final gate before a mutation.
func (s *ScheduleService) CheckShift(cand ShiftCandidate) ([]string, error) {
	employees, err := s.Employees.GetAllEmployees()
	if err != nil {
		return nil, err
	}
	dayShifts, err := s.Shifts.ShiftsOn(cand.Date)
	if err != nil {
		return nil, err
	}
	_, conflicts := ValidateShift(cand, employees, dayShifts)
	return conflicts, nil
}

// AddShift records a shift the caller has already validated and, if conflicts
// were reported, explicitly confirmed. The start<end invariant is still
// enforced here so a bad caller cannot corrupt the document.
func (s *ScheduleService) AddShift(date time.Time, employee, start, end string) (model.Shift, error) {
	if err := checkTimePair(start, end); err != nil {
		return model.Shift{}, err
	}
	shift, err := s.Shifts.AddShift(date, model.Shift{Employee: employee, Start: start, End: end})
	if err != nil {
		return model.Shift{}, err
	}
	s.Log.Info("shift added",
		zap.String("date", timeutil.DateKey(date)),
		zap.String("employee", employee),
		zap.String("start", start),
		zap.String("end", end))
	return shift, nil
}

// EditShift replaces the identified shift with new times/assignee.
func (s *ScheduleService) EditShift(date time.Time, shift model.Shift) error {
	if err := checkTimePair(shift.Start, shift.End); err != nil {
		return err
	}
	if err := s.Shifts.UpdateShift(date, shift); err != nil {
		return err
	}
	s.Log.Info("shift updated", zap.String("date", timeutil.DateKey(date)), zap.String("id", shift.ID))
	return nil
}

func (s *ScheduleService) RemoveShift(date time.Time, shiftID string) (model.Shift, error) {
	return s.Shifts.RemoveShift(date, shiftID)
}

func (s *ScheduleService) ClearDay(date time.Time) (int, error) {
	return s.Shifts.ClearDay(date)
}

func (s *ScheduleService) ShiftsOn(date time.Time) ([]model.Shift, error) {
	return s.Shifts.ShiftsOn(date)
}

func (s *ScheduleService) MonthShifts(monthKey string) (map[string][]model.Shift, error) {
	return s.Shifts.MonthShifts(monthKey)
}

// ClosedOn reports whether the store is closed on the date's weekday — the
// precondition callers must check before offering any scheduling flow.
func (s *ScheduleService) ClosedOn(date time.Time) (bool, error) {
	hours, err := s.Hours.HoursFor(date)
	if err != nil {
		return false, err
	}
	return hours == nil, nil
}

// CopyResult summarizes a day-to-day copy.
type CopyResult struct {
	Added    int
	Skipped  int // exact duplicates already on the target day
	Warnings []string
}

// CopyDay copies every shift from source to target. A closed target blocks
// the whole operation. Duplicates are silently skipped and counted. Every
// non-duplicate is applied even when the validator objects; the conflicts come
// back as a warning summary instead of gating the mutation.
func (s *ScheduleService) CopyDay(source, target time.Time) (CopyResult, error) {
	var res CopyResult
	closed, err := s.ClosedOn(target)
	if err != nil {
		return res, err
	}
	if closed {
		return res, fmt.Errorf("cannot copy to %s: %w", capitalize(timeutil.WeekdayName(target)), domain.ErrStoreClosed)
	}

	sourceShifts, err := s.Shifts.ShiftsOn(source)
	if err != nil {
		return res, err
	}
	employees, err := s.Employees.GetAllEmployees()
	if err != nil {
		return res, err
	}
	targetShifts, err := s.Shifts.ShiftsOn(target)
	if err != nil {
		return res, err
	}

	for _, shift := range sourceShifts {
		if containsSame(targetShifts, shift) {
			res.Skipped++
			continue
		}
		_, conflicts := ValidateShift(ShiftCandidate{
			Employee: shift.Employee,
			Date:     target,
			Start:    shift.Start,
			End:      shift.End,
		}, employees, targetShifts)
		for _, c := range conflicts {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s %s - %s: %s", shift.Employee, shift.Start, shift.End, c))
		}

		added, err := s.Shifts.AddShift(target, model.Shift{Employee: shift.Employee, Start: shift.Start, End: shift.End})
		if err != nil {
			return res, err
		}
		targetShifts = append(targetShifts, added)
		res.Added++
	}
	s.Log.Info("day copied",
		zap.String("source", timeutil.DateKey(source)),
		zap.String("target", timeutil.DateKey(target)),
		zap.Int("added", res.Added),
		zap.Int("skipped", res.Skipped),
		zap.Int("warnings", len(res.Warnings)))
	return res, nil
}

// ConflictedShift pairs a shift with the reasons it should not be pasted.
type ConflictedShift struct {
	Shift     model.Shift
	Conflicts []string
}

// PastePlan partitions clipboard shifts for a target day. Nothing is applied
// until ApplyPaste runs; cancelling is simply dropping the plan.
type PastePlan struct {
	Target     time.Time
	Clean      []model.Shift
	Conflicted []ConflictedShift
}

// PlanPaste validates each clipboard shift against the target day without
// mutating anything. A closed target refuses the paste outright.
func (s *ScheduleService) PlanPaste(shifts []model.Shift, target time.Time) (PastePlan, error) {
	plan := PastePlan{Target: target}
	closed, err := s.ClosedOn(target)
	if err != nil {
		return plan, err
	}
	if closed {
		return plan, fmt.Errorf("cannot paste to %s: %w", capitalize(timeutil.WeekdayName(target)), domain.ErrStoreClosed)
	}

	employees, err := s.Employees.GetAllEmployees()
	if err != nil {
		return plan, err
	}
	targetShifts, err := s.Shifts.ShiftsOn(target)
	if err != nil {
		return plan, err
	}
	for _, shift := range shifts {
		ok, conflicts := ValidateShift(ShiftCandidate{
			Employee: shift.Employee,
			Date:     target,
			Start:    shift.Start,
			End:      shift.End,
		}, employees, targetShifts)
		if ok {
			plan.Clean = append(plan.Clean, shift)
		} else {
			plan.Conflicted = append(plan.Conflicted, ConflictedShift{Shift: shift, Conflicts: conflicts})
		}
	}
	return plan, nil
}

// ApplyPaste commits a plan: always the clean shifts, and the conflicting ones
// only when includeConflicted is set. Exact duplicates already on the target
// day are skipped.
func (s *ScheduleService) ApplyPaste(plan PastePlan, includeConflicted bool) (CopyResult, error) {
	var res CopyResult
	toApply := append([]model.Shift{}, plan.Clean...)
	if includeConflicted {
		for _, c := range plan.Conflicted {
			toApply = append(toApply, c.Shift)
		}
	}
	targetShifts, err := s.Shifts.ShiftsOn(plan.Target)
	if err != nil {
		return res, err
	}
	for _, shift := range toApply {
		if containsSame(targetShifts, shift) {
			res.Skipped++
			continue
		}
		added, err := s.Shifts.AddShift(plan.Target, model.Shift{Employee: shift.Employee, Start: shift.Start, End: shift.End})
		if err != nil {
			return res, err
		}
		targetShifts = append(targetShifts, added)
		res.Added++
	}
	s.Log.Info("paste applied",
		zap.String("target", timeutil.DateKey(plan.Target)),
		zap.Bool("included_conflicted", includeConflicted),
		zap.Int("added", res.Added),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

func containsSame(shifts []model.Shift, s model.Shift) bool {
	for _, existing := range shifts {
		if existing.Same(s) {
			return true
		}
	}
	return false
}

func checkTimePair(start, end string) error {
	startMin, err := timeutil.ParseClock(start)
	if err != nil {
		return err
	}
	endMin, err := timeutil.ParseClock(end)
	if err != nil {
		return err
	}
	if endMin <= startMin {
		return fmt.Errorf("end time %s must be after start time %s", end, start)
	}
	return nil
}
