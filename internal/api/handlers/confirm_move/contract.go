package confirm_move

import (
	"context"

	moveAppointment "github.com/m04kA/BRB-ScheduleService/internal/usecase/move_appointment"
)

type MoveUseCase interface {
	Confirm(ctx context.Context, moveID string) (*moveAppointment.ConfirmResponse, error)
	Cancel(moveID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
