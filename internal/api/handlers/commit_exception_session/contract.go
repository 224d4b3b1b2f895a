package commit_exception_session

import (
	"context"

	editExceptions "github.com/m04kA/BRB-ScheduleService/internal/usecase/edit_exceptions"
)

type ExceptionSessionUseCase interface {
	Commit(ctx context.Context, sessionID string) (*editExceptions.CommitResponse, error)
	Discard(sessionID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
