package domain

import (
	"time"

	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Appointment represents a client appointment in the barbershop agenda
type Appointment struct {
	ID           int64
	BarbershopID int64
	EmployeeID   int64
	Date         time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	Status       AppointmentStatus
	ServiceID    int64

	// Denormalized client data for the agenda view
	ClientName  string
	ClientPhone *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment participates in conflict
// checks and the bookable grid
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled && a.Status != StatusNoShow
}

// DurationMinutes returns the appointment duration derived from its times
func (a *Appointment) DurationMinutes() int {
	return a.EndTime.Minutes() - a.StartTime.Minutes()
}

// Placement describes where an appointment sits in the agenda
type Placement struct {
	EmployeeID int64
	Date       time.Time
	StartTime  types.TimeString
}

// CurrentPlacement returns the appointment's current placement
func (a *Appointment) CurrentPlacement() Placement {
	return Placement{
		EmployeeID: a.EmployeeID,
		Date:       a.Date,
		StartTime:  a.StartTime,
	}
}

// SamePlacement returns true if other points at the same employee, date and start
func (p Placement) SamePlacement(other Placement) bool {
	return p.EmployeeID == other.EmployeeID &&
		SameDay(p.Date, other.Date) &&
		p.StartTime == other.StartTime
}

// DayAppointmentsFilter фильтр для получения записей на день
type DayAppointmentsFilter struct {
	BarbershopID    int64
	EmployeeID      *int64 // nil - все сотрудники
	Date            time.Time
	IncludeInactive bool // включать ли отменённые и no-show записи
}

// ToDomainStatus конвертирует строку в AppointmentStatus
func ToDomainStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusNoShow:
		return AppointmentStatus(s), true
	default:
		return "", false
	}
}

// SameDay проверяет, что две даты относятся к одному и тому же дню
func SameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateOnly обнуляет компонент времени, оставляя только дату
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
