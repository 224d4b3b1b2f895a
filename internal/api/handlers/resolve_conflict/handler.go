package resolve_conflict

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/BRB-ScheduleService/internal/api/handlers"
	resolveConflict "github.com/m04kA/BRB-ScheduleService/internal/usecase/resolve_conflict"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgConflictNotFound    = "конфликт не найден или уже разрешён"
	msgUnknownStrategy     = "неизвестная стратегия разрешения конфликта"
	msgAppointmentNotFound = "запись не найдена"
	msgNonPositiveDuration = "сокращение даёт нулевую или отрицательную длительность"
	msgCascadeConflict     = "перенос мешающей записи создаёт новый конфликт"
	msgPartialResolution   = "разрешение применено частично, проверьте агенду"
)

type Handler struct {
	useCase ResolveConflictUseCase
	logger  Logger
}

func NewHandler(useCase ResolveConflictUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// ResolveConflictRequest HTTP request model
type ResolveConflictRequest struct {
	Strategy string `json:"strategy" validate:"required"`
}

// ResolveConflictResponse HTTP response model
type ResolveConflictResponse struct {
	ConflictID        string `json:"conflictId"`
	Strategy          string `json:"strategy"`
	BlockingUpdated   bool   `json:"blockingUpdated"`
	IncomingUpdated   bool   `json:"incomingUpdated"`
	IncomingStart     string `json:"incomingStart,omitempty"`
	IncomingEnd       string `json:"incomingEnd,omitempty"`
	DurationDefaulted bool   `json:"durationDefaulted,omitempty"`
}

// Handle POST /api/v1/conflicts/{conflict_id}/resolve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conflictID := mux.Vars(r)["conflict_id"]

	var req ResolveConflictRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /conflicts/resolve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("POST /conflicts/resolve - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &resolveConflict.Request{
		ConflictID: conflictID,
		Strategy:   resolveConflict.Strategy(req.Strategy),
	})
	if err != nil {
		switch {
		case errors.Is(err, resolveConflict.ErrConflictNotFound):
			h.logger.Warn("POST /conflicts/resolve - Conflict not found: conflict_id=%s", conflictID)
			handlers.RespondNotFound(w, msgConflictNotFound)

		case errors.Is(err, resolveConflict.ErrUnknownStrategy):
			h.logger.Warn("POST /conflicts/resolve - Unknown strategy: conflict_id=%s, strategy=%s", conflictID, req.Strategy)
			handlers.RespondBadRequest(w, msgUnknownStrategy)

		case errors.Is(err, resolveConflict.ErrAppointmentNotFound):
			h.logger.Warn("POST /conflicts/resolve - Appointment not found: conflict_id=%s", conflictID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, resolveConflict.ErrNonPositiveDuration):
			h.logger.Warn("POST /conflicts/resolve - Non-positive duration: conflict_id=%s", conflictID)
			handlers.RespondError(w, http.StatusConflict, msgNonPositiveDuration)

		case errors.Is(err, resolveConflict.ErrCascadeConflict):
			h.logger.Warn("POST /conflicts/resolve - Cascade conflict: conflict_id=%s", conflictID)
			handlers.RespondError(w, http.StatusConflict, msgCascadeConflict)

		case errors.Is(err, resolveConflict.ErrPartialResolution):
			h.logger.Error("POST /conflicts/resolve - Partial resolution: conflict_id=%s, error=%v", conflictID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgPartialResolution)

		default:
			h.logger.Error("POST /conflicts/resolve - Failed to resolve conflict: conflict_id=%s, error=%v", conflictID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /conflicts/resolve - Resolved: conflict_id=%s, strategy=%s", conflictID, result.Strategy)
	handlers.RespondJSON(w, http.StatusOK, &ResolveConflictResponse{
		ConflictID:        result.ConflictID,
		Strategy:          string(result.Strategy),
		BlockingUpdated:   result.BlockingUpdated,
		IncomingUpdated:   result.IncomingUpdated,
		IncomingStart:     result.IncomingStart.String(),
		IncomingEnd:       result.IncomingEnd.String(),
		DurationDefaulted: result.DurationDefaulted,
	})
}
