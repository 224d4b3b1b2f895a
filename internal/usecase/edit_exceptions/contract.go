package edit_exceptions

import (
	"context"
	"time"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
)

// EmployeeRepository интерфейс репозитория сотрудников
type EmployeeRepository interface {
	GetByBarbershop(ctx context.Context, barbershopID int64, activeOnly bool) ([]*domain.Employee, error)
}

// ExceptionRepository интерфейс репозитория исключений доступности
type ExceptionRepository interface {
	GetByEmployeesAndDate(ctx context.Context, employeeIDs []int64, date time.Time) (map[int64]*domain.AvailabilityException, error)
	Upsert(ctx context.Context, exc *domain.AvailabilityException) error
}

// SessionRegistry интерфейс реестра сессий редактирования
type SessionRegistry interface {
	OpenSession(session *domain.ExceptionSession) (string, error)
	Session(id string) (*domain.ExceptionSession, error)
	CloseSession(id string) error
}

// ChangeFeed интерфейс публикации уведомлений об изменениях
type ChangeFeed interface {
	AvailabilityChanged(ctx context.Context, barbershopID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
