package edit_exception_session

import (
	editExceptions "github.com/m04kA/BRB-ScheduleService/internal/usecase/edit_exceptions"
)

type ExceptionSessionUseCase interface {
	ToggleSlot(req *editExceptions.ToggleRequest) (*editExceptions.ToggleResponse, error)
	BeginDrag(req *editExceptions.DragRequest) (*editExceptions.DragResponse, error)
	DragEnter(req *editExceptions.DragRequest) (*editExceptions.DragResponse, error)
	EndDrag(sessionID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
