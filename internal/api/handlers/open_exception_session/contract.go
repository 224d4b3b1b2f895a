package open_exception_session

import (
	"context"

	editExceptions "github.com/m04kA/BRB-ScheduleService/internal/usecase/edit_exceptions"
)

type ExceptionSessionUseCase interface {
	Open(ctx context.Context, req *editExceptions.OpenRequest) (*editExceptions.OpenResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
