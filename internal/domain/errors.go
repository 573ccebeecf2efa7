package domain

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrShiftNotFound    = errors.New("shift not found")
	ErrStoreClosed      = errors.New("store is closed that day")
)
