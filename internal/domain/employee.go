package domain

import (
	"time"

	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

// Employee represents a barber with their weekly schedule and breaks
type Employee struct {
	ID           int64
	BarbershopID int64
	Name         string
	Active       bool

	ScheduleRules []ScheduleRule
	Breaks        []Break
}

// ScheduleRule is a recurring weekly working window for an employee.
// Weekday follows time.Weekday numbering: 0 = Sunday .. 6 = Saturday.
// Multiple rules per weekday are not merged: the first active match wins.
type ScheduleRule struct {
	ID         int64
	EmployeeID int64
	Weekday    int
	StartTime  types.TimeString
	EndTime    types.TimeString
	Active     bool
}

// Break masks availability within its time range regardless of the
// underlying schedule. Exactly one of Weekday (recurring) or Date
// (one-off) is set.
type Break struct {
	ID         int64
	EmployeeID int64
	Title      string
	StartTime  types.TimeString
	EndTime    types.TimeString
	Weekday    *int
	Date       *time.Time
	Active     bool
}

// AppliesOn returns true if the break is in effect on the given date
func (b *Break) AppliesOn(date time.Time) bool {
	if !b.Active {
		return false
	}
	if b.Date != nil {
		return SameDay(*b.Date, date)
	}
	if b.Weekday != nil {
		return *b.Weekday == int(date.Weekday())
	}
	return false
}

// Covers returns true if the break masks the given time of day
func (b *Break) Covers(t types.TimeString) bool {
	return !t.IsBefore(b.StartTime) && t.IsBefore(b.EndTime)
}

// RuleForWeekday возвращает первое активное правило расписания для дня недели
// Правила не объединяются: используется только первое совпадение
func (e *Employee) RuleForWeekday(weekday int) *ScheduleRule {
	for i := range e.ScheduleRules {
		rule := &e.ScheduleRules[i]
		if rule.Active && rule.Weekday == weekday {
			return rule
		}
	}
	return nil
}

// BreakAt возвращает активный перерыв, накрывающий указанные дату и время
func (e *Employee) BreakAt(date time.Time, t types.TimeString) *Break {
	for i := range e.Breaks {
		br := &e.Breaks[i]
		if br.AppliesOn(date) && br.Covers(t) {
			return br
		}
	}
	return nil
}
