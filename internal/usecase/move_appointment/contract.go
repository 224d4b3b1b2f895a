package move_appointment

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
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetServiceWithGracefulDegradation(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// StageRegistry интерфейс реестра эфемерного состояния
type StageRegistry interface {
	HasOpenSession(barbershopID int64) bool
	StageMove(move *domain.PendingMove) (string, error)
	TakeMove(id string) (*domain.PendingMove, error)
	DropMove(id string) error
	StageConflict(conflict *domain.ConflictContext) (string, error)
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
