package agenda

import (
	"context"
	"time"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByDay(ctx context.Context, filter domain.DayAppointmentsFilter) ([]*domain.Appointment, error)
}

// EmployeeRepository интерфейс репозитория сотрудников
type EmployeeRepository interface {
	GetByBarbershop(ctx context.Context, barbershopID int64, activeOnly bool) ([]*domain.Employee, error)
}

// ExceptionRepository интерфейс репозитория исключений доступности
type ExceptionRepository interface {
	GetByEmployeesAndDate(ctx context.Context, employeeIDs []int64, date time.Time) (map[int64]*domain.AvailabilityException, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
