package domain

import "schedule-bot/internal/model"

type EmployeeRepo interface {
	GetAllEmployees() ([]model.Employee, error)
	GetEmployeeByID(id int) (model.Employee, error)
	GetEmployeeByName(name string) (model.Employee, error)
	CreateEmployee(first, last string) (model.Employee, error)
	UpdateEmployee(e model.Employee) error
	// RenameEmployee rebuilds the display name and rewrites every shift record
	// that carried the old one.
	RenameEmployee(id int, first, last string) (model.Employee, error)
	// DeleteEmployee removes the employee and all their shifts across every
	// month, returning how many shifts went with them.
	DeleteEmployee(id int) (int, error)
}
