package service

import (
	"fmt"
	"strings"
	"time"

	"schedule-bot/internal/model"
	"schedule-bot/pkg/timeutil"
)

// ShiftCandidate is a proposed assignment to be checked before it is applied.
// ExcludeShiftID names the shift being edited, if any, so it is not compared
// against itself.
type ShiftCandidate struct {
	Employee       string
	Date           time.Time
	Start          string
	End            string
	ExcludeShiftID string
}

// ValidateShift runs every scheduling rule against the candidate and returns
// the full list of human-readable conflicts. It is pure: employees and
// dayShifts are never mutated, so callers may probe speculatively (one call
// per shift during a bulk paste) and commit later.
//
// An unknown employee or unparseable candidate times short-circuit with a
// single explanatory conflict. All other checks accumulate: requested time
// off, weekly availability (window start and end violations reported
// independently), and overlap with the employee's other shifts that day.
// Store-hours closure is a caller precondition and is not checked here.
func ValidateShift(cand ShiftCandidate, employees []model.Employee, dayShifts []model.Shift) (bool, []string) {
	var emp *model.Employee
	for i := range employees {
		if employees[i].Name == cand.Employee {
			emp = &employees[i]
			break
		}
	}
	if emp == nil {
		return false, []string{fmt.Sprintf("employee %q not found", cand.Employee)}
	}

	start, err := timeutil.ParseClock(cand.Start)
	if err != nil {
		return false, []string{fmt.Sprintf("start time %q is not a valid time", cand.Start)}
	}
	end, err := timeutil.ParseClock(cand.End)
	if err != nil {
		return false, []string{fmt.Sprintf("end time %q is not a valid time", cand.End)}
	}
	if end <= start {
		return false, []string{"end time must be after start time"}
	}

	var conflicts []string
	dayKey := timeutil.DateKey(cand.Date)
	weekday := timeutil.WeekdayName(cand.Date)

	// Requested time off. Malformed partial entries are treated as the more
	// restrictive full-day request rather than ignored.
	for _, req := range emp.RequestedTimeOff {
		if req.Date != dayKey {
			continue
		}
		switch req.Type {
		case model.TimeOffPartial:
			if reqStart, reqEnd, ok := parseTimeOffRange(req.Times); ok {
				if timeutil.Overlaps(start, end, reqStart, reqEnd) {
					conflicts = append(conflicts, fmt.Sprintf("Requested partial day off (%s)", req.Times))
				}
			} else {
				conflicts = append(conflicts, fmt.Sprintf("%s requested this entire day off", emp.Name))
			}
		default:
			conflicts = append(conflicts, fmt.Sprintf("%s requested this entire day off", emp.Name))
		}
	}

	// Weekly availability. A malformed window is itself a conflict.
	window := emp.Availability[weekday]
	if model.Off(window) {
		conflicts = append(conflicts, fmt.Sprintf("%s is not available on %ss", emp.Name, capitalize(weekday)))
	} else if availStart, availEnd, ok := parseWindow(window); !ok {
		conflicts = append(conflicts, fmt.Sprintf("%s's availability for %s is malformed", emp.Name, weekday))
	} else {
		if start < availStart {
			conflicts = append(conflicts, fmt.Sprintf("Shift starts at %s but %s is only available from %s", cand.Start, emp.Name, window[0]))
		}
		if end > availEnd {
			conflicts = append(conflicts, fmt.Sprintf("Shift ends at %s but %s is only available until %s", cand.End, emp.Name, window[1]))
		}
	}

	// Overlap with the same employee's other shifts that day. Other employees
	// in the same slot are deliberately not flagged.
	for _, s := range dayShifts {
		if s.Employee != emp.Name {
			continue
		}
		if cand.ExcludeShiftID != "" && s.ID == cand.ExcludeShiftID {
			continue
		}
		sStart, err1 := timeutil.ParseClock(s.Start)
		sEnd, err2 := timeutil.ParseClock(s.End)
		if err1 != nil || err2 != nil {
			conflicts = append(conflicts, fmt.Sprintf("Existing shift (%s - %s) has unreadable times", s.Start, s.End))
			continue
		}
		if timeutil.Overlaps(start, end, sStart, sEnd) {
			conflicts = append(conflicts, fmt.Sprintf("Overlaps with existing shift (%s - %s)", s.Start, s.End))
		}
	}

	return len(conflicts) == 0, conflicts
}

// parseTimeOffRange splits "h:mm AM/PM - h:mm AM/PM" into minute values.
func parseTimeOffRange(times string) (int, int, bool) {
	parts := strings.Split(times, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, err1 := timeutil.ParseClock(parts[0])
	end, err2 := timeutil.ParseClock(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return start, end, true
}

func parseWindow(window []string) (int, int, bool) {
	if len(window) != 2 {
		return 0, 0, false
	}
	start, err1 := timeutil.ParseClock(window[0])
	end, err2 := timeutil.ParseClock(window[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return start, end, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
