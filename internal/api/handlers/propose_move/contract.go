package propose_move

import (
	"context"

	moveAppointment "github.com/m04kA/BRB-ScheduleService/internal/usecase/move_appointment"
)

type MoveUseCase interface {
	Propose(ctx context.Context, req *moveAppointment.ProposeRequest) (*moveAppointment.ProposeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
