package get_agenda

import (
	"context"
	"time"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	resolveSchedule "github.com/m04kA/BRB-ScheduleService/internal/usecase/resolve_schedule"
)

type ResolveScheduleUseCase interface {
	Execute(ctx context.Context, req *resolveSchedule.Request) (*resolveSchedule.Response, error)
}

type AgendaService interface {
	GetDayAppointments(ctx context.Context, barbershopID int64, date time.Time, includeInactive bool) ([]*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
