package model

// Shift is one scheduled block for an employee on a particular day. Employee is
// the display-name key ("firstName lastName"); ID is a stable identifier so edit
// flows never have to reference a shift by list position.
type Shift struct {
	ID       string `json:"id,omitempty"`
	Employee string `json:"employee"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// Same reports structural equality on (employee, start, end) — the duplicate
// test used by copy operations. IDs are deliberately ignored.
func (s Shift) Same(other Shift) bool {
	return s.Employee == other.Employee && s.Start == other.Start && s.End == other.End
}

// Schedule maps month key "YYYY-MM" to day key "YYYY-MM-DD" to that day's
// shifts. Emptied days and months are pruned on deletion.
type Schedule map[string]map[string][]Shift

// DayHours is an open/close pair in 12-hour format.
type DayHours [2]string

func (h DayHours) Open() string  { return h[0] }
func (h DayHours) Close() string { return h[1] }

// WeekHours maps weekday name to that day's hours; nil means closed.
type WeekHours map[string]*DayHours

// Closed reports whether the store is closed on the named weekday.
func (w WeekHours) Closed(weekday string) bool {
	return w[weekday] == nil
}

// Document is the whole persisted data file.
type Document struct {
	Employees  []Employee `json:"employees"`
	Schedule   Schedule   `json:"schedule"`
	StoreHours WeekHours  `json:"store_hours"`
}

// DefaultStoreHours returns the hours written into a fresh document: weekdays
// 8:30 AM to 7:00 PM, a shorter Saturday, closed Sunday.
func DefaultStoreHours() WeekHours {
	return WeekHours{
		"monday":    &DayHours{"8:30 AM", "7:00 PM"},
		"tuesday":   &DayHours{"8:30 AM", "7:00 PM"},
		"wednesday": &DayHours{"8:30 AM", "7:00 PM"},
		"thursday":  &DayHours{"8:30 AM", "7:00 PM"},
		"friday":    &DayHours{"8:30 AM", "7:00 PM"},
		"saturday":  &DayHours{"9:00 AM", "3:00 PM"},
		"sunday":    nil,
	}
}
