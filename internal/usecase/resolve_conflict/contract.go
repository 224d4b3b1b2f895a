package resolve_conflict

import (
	"context"
	"time"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	"github.com/m04kA/BRB-ScheduleService/internal/integrations/catalogservice"
	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByDay(ctx context.Context, filter domain.DayAppointmentsFilter) ([]*domain.Appointment, error)
	UpdatePlacement(ctx context.Context, id int64, employeeID int64, date time.Time, startTime, endTime types.TimeString) error
	UpdateTimes(ctx context.Context, id int64, startTime, endTime types.TimeString) error
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetServiceWithGracefulDegradation(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// ConflictRegistry интерфейс реестра застейдженных конфликтов
type ConflictRegistry interface {
	TakeConflict(id string) (*domain.ConflictContext, error)
	DropConflict(id string) error
}

// ChangeFeed интерфейс публикации уведомлений об изменениях
type ChangeFeed interface {
	AppointmentsChanged(ctx context.Context, barbershopID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
