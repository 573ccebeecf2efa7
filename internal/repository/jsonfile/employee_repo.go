package jsonfile

import (
	"fmt"

	"schedule-bot/internal/domain"
	"schedule-bot/internal/model"
)

type EmployeeRepo struct {
	st *Store
}

func NewEmployeeRepo(st *Store) *EmployeeRepo {
	return &EmployeeRepo{st: st}
}

// Reads return deep copies so the document can only change through the
// mutating methods below.

func (r *EmployeeRepo) GetAllEmployees() ([]model.Employee, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make([]model.Employee, len(r.st.doc.Employees))
	for i, e := range r.st.doc.Employees {
		out[i] = e.Clone()
	}
	return out, nil
}

func (r *EmployeeRepo) GetEmployeeByID(id int) (model.Employee, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, e := range r.st.doc.Employees {
		if e.ID == id {
			return e.Clone(), nil
		}
	}
	return model.Employee{}, fmt.Errorf("employee id %d: %w", id, domain.ErrEmployeeNotFound)
}

// GetEmployeeByName matches on the exact display name, the key shift records use.
func (r *EmployeeRepo) GetEmployeeByName(name string) (model.Employee, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, e := range r.st.doc.Employees {
		if e.Name == name {
			return e.Clone(), nil
		}
	}
	return model.Employee{}, fmt.Errorf("employee %q: %w", name, domain.ErrEmployeeNotFound)
}

func (r *EmployeeRepo) CreateEmployee(first, last string) (model.Employee, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	maxID := 0
	for _, e := range r.st.doc.Employees {
		if e.ID > maxID {
			maxID = e.ID
		}
	}
	avail := model.Availability{}
	for _, d := range model.Weekdays {
		avail[d] = []string{"off"}
	}
	emp := model.Employee{
		ID:               maxID + 1,
		Name:             model.DisplayName(first, last),
		FirstName:        first,
		LastName:         last,
		Availability:     avail,
		RequestedTimeOff: []model.TimeOffEntry{},
	}
	r.st.doc.Employees = append(r.st.doc.Employees, emp)
	r.st.scheduleSave()
	return emp.Clone(), nil
}

func (r *EmployeeRepo) UpdateEmployee(e model.Employee) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for i := range r.st.doc.Employees {
		if r.st.doc.Employees[i].ID == e.ID {
			// Stored as a copy: the caller keeps no handle into the document.
			r.st.doc.Employees[i] = e.Clone()
			r.st.scheduleSave()
			return nil
		}
	}
	return fmt.Errorf("employee id %d: %w", e.ID, domain.ErrEmployeeNotFound)
}

// RenameEmployee changes the display name and rewrites every shift record that
// carried the old one, so history stays attached after a rename.
func (r *EmployeeRepo) RenameEmployee(id int, first, last string) (model.Employee, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var emp *model.Employee
	for i := range r.st.doc.Employees {
		if r.st.doc.Employees[i].ID == id {
			emp = &r.st.doc.Employees[i]
			break
		}
	}
	if emp == nil {
		return model.Employee{}, fmt.Errorf("employee id %d: %w", id, domain.ErrEmployeeNotFound)
	}

	oldName := emp.Name
	emp.FirstName = first
	emp.LastName = last
	emp.Name = model.DisplayName(first, last)

	for _, days := range r.st.doc.Schedule {
		for day, shifts := range days {
			for i := range shifts {
				if shifts[i].Employee == oldName {
					shifts[i].Employee = emp.Name
				}
			}
			days[day] = shifts
		}
	}
	if err := r.st.saveNowLocked(); err != nil {
		return model.Employee{}, err
	}
	return emp.Clone(), nil
}

// DeleteEmployee removes the employee and every shift referencing their display
// name across all months, pruning days and months that become empty.
func (r *EmployeeRepo) DeleteEmployee(id int) (int, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	idx := -1
	for i := range r.st.doc.Employees {
		if r.st.doc.Employees[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, fmt.Errorf("employee id %d: %w", id, domain.ErrEmployeeNotFound)
	}
	name := r.st.doc.Employees[idx].Name
	r.st.doc.Employees = append(r.st.doc.Employees[:idx], r.st.doc.Employees[idx+1:]...)

	removed := 0
	for monthKey, days := range r.st.doc.Schedule {
		for day, shifts := range days {
			kept := shifts[:0]
			for _, s := range shifts {
				if s.Employee == name {
					removed++
					continue
				}
				kept = append(kept, s)
			}
			if len(kept) == 0 {
				delete(days, day)
			} else {
				days[day] = kept
			}
		}
		if len(days) == 0 {
			delete(r.st.doc.Schedule, monthKey)
		}
	}
	if err := r.st.saveNowLocked(); err != nil {
		return removed, err
	}
	return removed, nil
}
