package edit_exception_session

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/BRB-ScheduleService/internal/api/handlers"
	editExceptions "github.com/m04kA/BRB-ScheduleService/internal/usecase/edit_exceptions"
	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidSlot          = "некорректный слот, ожидается HH:MM с шагом 10 минут"
	msgSessionNotFound      = "сессия не найдена или уже завершена"
	msgEmployeeNotInSession = "сотрудник не входит в сессию"
	msgNoActiveDrag         = "жест не начат"
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

// SlotRequest HTTP request model для toggle и drag-событий
type SlotRequest struct {
	EmployeeID int64  `json:"employeeId" validate:"required,gt=0"`
	Slot       string `json:"slot" validate:"required"` // "14:30"
}

// SlotResponse состояние слота после операции
type SlotResponse struct {
	EmployeeID int64  `json:"employeeId"`
	Slot       string `json:"slot"`
	Blocked    bool   `json:"blocked"`
	Polarity   string `json:"polarity,omitempty"`
}

// HandleToggle POST /api/v1/exception-sessions/{session_id}/toggle
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	req, slot, ok := h.decodeSlotRequest(w, r, "toggle")
	if !ok {
		return
	}

	result, err := h.useCase.ToggleSlot(&editExceptions.ToggleRequest{
		SessionID:  sessionID,
		EmployeeID: req.EmployeeID,
		Slot:       slot,
	})
	if err != nil {
		h.respondSessionError(w, "toggle", sessionID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &SlotResponse{
		EmployeeID: result.EmployeeID,
		Slot:       result.Slot.String(),
		Blocked:    result.Blocked,
	})
}

// HandleDragBegin POST /api/v1/exception-sessions/{session_id}/drag/begin
func (h *Handler) HandleDragBegin(w http.ResponseWriter, r *http.Request) {
	h.handleDrag(w, r, "drag/begin", h.useCase.BeginDrag)
}

// HandleDragEnter POST /api/v1/exception-sessions/{session_id}/drag/enter
func (h *Handler) HandleDragEnter(w http.ResponseWriter, r *http.Request) {
	h.handleDrag(w, r, "drag/enter", h.useCase.DragEnter)
}

// HandleDragEnd POST /api/v1/exception-sessions/{session_id}/drag/end
func (h *Handler) HandleDragEnd(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	if err := h.useCase.EndDrag(sessionID); err != nil {
		h.respondSessionError(w, "drag/end", sessionID, err)
		return
	}

	handlers.RespondNoContent(w)
}

func (h *Handler) handleDrag(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	apply func(req *editExceptions.DragRequest) (*editExceptions.DragResponse, error),
) {
	sessionID := mux.Vars(r)["session_id"]

	req, slot, ok := h.decodeSlotRequest(w, r, op)
	if !ok {
		return
	}

	result, err := apply(&editExceptions.DragRequest{
		SessionID:  sessionID,
		EmployeeID: req.EmployeeID,
		Slot:       slot,
	})
	if err != nil {
		h.respondSessionError(w, op, sessionID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &SlotResponse{
		EmployeeID: result.EmployeeID,
		Slot:       result.Slot.String(),
		Blocked:    result.Blocked,
		Polarity:   result.Polarity,
	})
}

func (h *Handler) decodeSlotRequest(w http.ResponseWriter, r *http.Request, op string) (*SlotRequest, types.TimeString, bool) {
	var req SlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /exception-sessions/%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return nil, "", false
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("POST /exception-sessions/%s - Validation failed: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return nil, "", false
	}

	slot, err := types.NewTimeStringFromString(req.Slot)
	if err != nil {
		h.logger.Warn("POST /exception-sessions/%s - Invalid slot %q: %v", op, req.Slot, err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return nil, "", false
	}

	return &req, slot, true
}

func (h *Handler) respondSessionError(w http.ResponseWriter, op, sessionID string, err error) {
	switch {
	case errors.Is(err, editExceptions.ErrSessionNotFound):
		h.logger.Warn("POST /exception-sessions/%s - Session not found: session_id=%s", op, sessionID)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, editExceptions.ErrEmployeeNotInSession):
		h.logger.Warn("POST /exception-sessions/%s - Employee not in session: session_id=%s", op, sessionID)
		handlers.RespondNotFound(w, msgEmployeeNotInSession)

	case errors.Is(err, editExceptions.ErrNoActiveDrag):
		h.logger.Warn("POST /exception-sessions/%s - No active drag: session_id=%s", op, sessionID)
		handlers.RespondError(w, http.StatusConflict, msgNoActiveDrag)

	case errors.Is(err, editExceptions.ErrUnalignedSlot), errors.Is(err, editExceptions.ErrInvalidInput):
		h.logger.Warn("POST /exception-sessions/%s - Invalid slot: session_id=%s, error=%v", op, sessionID, err)
		handlers.RespondBadRequest(w, msgInvalidSlot)

	default:
		h.logger.Error("POST /exception-sessions/%s - Failed: session_id=%s, error=%v", op, sessionID, err)
		handlers.RespondInternalError(w)
	}
}
