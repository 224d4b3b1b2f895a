package domain

import (
	"time"

	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

// TimeRange is a half-open [StartTime, EndTime) window within a day
type TimeRange struct {
	StartTime types.TimeString `json:"start"`
	EndTime   types.TimeString `json:"end"`
}

// Contains returns true if t falls within the range
func (r TimeRange) Contains(t types.TimeString) bool {
	return !t.IsBefore(r.StartTime) && t.IsBefore(r.EndTime)
}

// AvailabilityException is a date-specific override of an employee's
// availability. When present for (employee, date), it is the sole source
// of truth for that day: weekly schedule and breaks are ignored.
type AvailabilityException struct {
	ID         int64
	EmployeeID int64
	Date       time.Time
	Ranges     []TimeRange

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Allows returns true if the exception's ranges cover the given time
func (e *AvailabilityException) Allows(t types.TimeString) bool {
	for _, r := range e.Ranges {
		if r.Contains(t) {
			return true
		}
	}
	return false
}
