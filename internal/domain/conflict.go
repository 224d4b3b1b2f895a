package domain

import (
	"time"

	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

// FindConflict ищет первую запись того же сотрудника на тот же день,
// пересекающуюся с предлагаемым интервалом [start, end).
//
// Учитываются только активные записи (не cancelled и не no_show).
// Запись с id == excludeID пропускается - используется при проверке
// переноса записи против её собственного прежнего слота.
//
// Интервалы полуоткрытые: касание границ пересечением не считается.
// Пересечение есть, только если newStart < otherEnd И newEnd > otherStart:
//   - [10:00, 10:30) и [10:30, 11:00) - НЕ конфликт (граничат)
//   - [10:00, 10:31) и [10:30, 11:00) - конфликт
func FindConflict(
	appointments []*Appointment,
	employeeID int64,
	date time.Time,
	start, end types.TimeString,
	excludeID *int64,
) *Appointment {
	for _, appt := range appointments {
		if excludeID != nil && appt.ID == *excludeID {
			continue
		}
		if appt.EmployeeID != employeeID {
			continue
		}
		if !SameDay(appt.Date, date) {
			continue
		}
		if !appt.IsActive() {
			continue
		}

		// Строгие неравенства: граничные случаи не считаются пересечением
		if start.IsBefore(appt.EndTime) && end.IsAfter(appt.StartTime) {
			return appt
		}
	}

	return nil
}
