package commit_exception_session

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/BRB-ScheduleService/internal/api/handlers"
	editExceptions "github.com/m04kA/BRB-ScheduleService/internal/usecase/edit_exceptions"
)

const (
	msgSessionNotFound = "сессия не найдена или уже завершена"
)

type Handler struct {
	useCase ExceptionSessionUseCase
	logger  Logger
}

func NewHandler(useCase ExceptionSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// CommitSessionResponse HTTP response model
type CommitSessionResponse struct {
	SessionID string  `json:"sessionId"`
	Saved     []int64 `json:"savedEmployeeIds"`
	Failed    []int64 `json:"failedEmployeeIds,omitempty"`
}

// HandleCommit POST /api/v1/exception-sessions/{session_id}/commit
func (h *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	result, err := h.useCase.Commit(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, editExceptions.ErrSessionNotFound):
			h.logger.Warn("POST /exception-sessions/commit - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		default:
			h.logger.Error("POST /exception-sessions/commit - Failed to commit: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Частичный провал отдаём как 207: часть сотрудников сохранена
	status := http.StatusOK
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}

	h.logger.Info("POST /exception-sessions/commit - Committed: session_id=%s, saved=%d, failed=%d",
		sessionID, len(result.Saved), len(result.Failed))
	handlers.RespondJSON(w, status, &CommitSessionResponse{
		SessionID: result.SessionID,
		Saved:     result.Saved,
		Failed:    result.Failed,
	})
}

// HandleDiscard DELETE /api/v1/exception-sessions/{session_id}
func (h *Handler) HandleDiscard(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	if err := h.useCase.Discard(sessionID); err != nil {
		h.logger.Warn("DELETE /exception-sessions - Session not found: session_id=%s", sessionID)
		handlers.RespondNotFound(w, msgSessionNotFound)
		return
	}

	h.logger.Info("DELETE /exception-sessions - Discarded: session_id=%s", sessionID)
	handlers.RespondNoContent(w)
}
