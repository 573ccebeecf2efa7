package model

import (
	"encoding/json"
	"strings"
)

// Weekdays lists availability/store-hours keys in calendar order.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

const (
	TimeOffFull    = "full"
	TimeOffPartial = "partial"
)

// TimeOffEntry is one requested-time-off record. Older documents stored a bare
// date string; those unmarshal as a full-day entry.
type TimeOffEntry struct {
	Type  string `json:"type"`
	Date  string `json:"date"`
	Times string `json:"times,omitempty"` // "h:mm AM/PM - h:mm AM/PM" when partial
}

func (e *TimeOffEntry) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var date string
		if err := json.Unmarshal(data, &date); err != nil {
			return err
		}
		e.Type = TimeOffFull
		e.Date = date
		e.Times = ""
		return nil
	}
	type entry TimeOffEntry
	var raw entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = TimeOffEntry(raw)
	if e.Type == "" {
		e.Type = TimeOffFull
	}
	return nil
}

// Availability maps weekday name to ["off"] or [start, end] in 12-hour format.
type Availability map[string][]string

// Off reports whether the slice is the ["off"] sentinel or missing entirely.
func Off(window []string) bool {
	return len(window) == 0 || (len(window) == 1 && window[0] == "off")
}

type Employee struct {
	ID               int            `json:"id"`
	Name             string         `json:"name"`
	FirstName        string         `json:"firstName"`
	LastName         string         `json:"lastName"`
	Position         string         `json:"position,omitempty"`
	Availability     Availability   `json:"availability"`
	RequestedTimeOff []TimeOffEntry `json:"requested_days_off"`
}

// Clone returns a deep copy. Repository reads hand these out so no caller can
// reach the stored document through a shared map or slice.
func (e Employee) Clone() Employee {
	out := e
	if e.Availability != nil {
		out.Availability = make(Availability, len(e.Availability))
		for day, window := range e.Availability {
			out.Availability[day] = append([]string(nil), window...)
		}
	}
	if e.RequestedTimeOff != nil {
		out.RequestedTimeOff = append([]TimeOffEntry(nil), e.RequestedTimeOff...)
	}
	return out
}

// DisplayName builds the "firstName lastName" key used by shift records.
func DisplayName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
