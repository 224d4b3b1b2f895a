package open_exception_session

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/BRB-ScheduleService/internal/api/handlers"
	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	editExceptions "github.com/m04kA/BRB-ScheduleService/internal/usecase/edit_exceptions"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgSessionAlreadyOpen = "для барбершопа уже открыта сессия редактирования"
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

// OpenSessionRequest HTTP request model.
// employeeIds опционален: без него сессия открывается на всех активных
// сотрудников барбершопа.
type OpenSessionRequest struct {
	BarbershopID int64   `json:"barbershopId" validate:"required,gt=0"`
	EmployeeIDs  []int64 `json:"employeeIds" validate:"omitempty,dive,gt=0"`
	Date         string  `json:"date" validate:"required"` // "2026-09-01"
}

// SheetResponse лист сотрудника с заблокированными слотами
type SheetResponse struct {
	EmployeeID   int64    `json:"employeeId"`
	EmployeeName string   `json:"employeeName"`
	BlockedSlots []string `json:"blockedSlots"`
}

// OpenSessionResponse HTTP response model
type OpenSessionResponse struct {
	SessionID string          `json:"sessionId"`
	Date      string          `json:"date"`
	Sheets    []SheetResponse `json:"sheets"`
}

// Handle POST /api/v1/exception-sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /exception-sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("POST /exception-sessions - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /exception-sessions - Invalid date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Open(r.Context(), &editExceptions.OpenRequest{
		BarbershopID: req.BarbershopID,
		EmployeeIDs:  req.EmployeeIDs,
		Date:         date,
	})
	if err != nil {
		switch {
		case errors.Is(err, editExceptions.ErrSessionAlreadyOpen):
			h.logger.Warn("POST /exception-sessions - Session already open: barbershop_id=%d", req.BarbershopID)
			handlers.RespondError(w, http.StatusConflict, msgSessionAlreadyOpen)

		case errors.Is(err, editExceptions.ErrInvalidInput):
			h.logger.Warn("POST /exception-sessions - Invalid input: barbershop_id=%d, error=%v", req.BarbershopID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /exception-sessions - Failed to open session: barbershop_id=%d, error=%v", req.BarbershopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	sheets := make([]SheetResponse, 0, len(result.Sheets))
	for _, sheet := range result.Sheets {
		blocked := make([]string, 0, len(sheet.BlockedSlots))
		for _, slot := range sheet.BlockedSlots {
			blocked = append(blocked, slot.String())
		}
		sheets = append(sheets, SheetResponse{
			EmployeeID:   sheet.EmployeeID,
			EmployeeName: sheet.EmployeeName,
			BlockedSlots: blocked,
		})
	}

	h.logger.Info("POST /exception-sessions - Opened: session_id=%s, barbershop_id=%d, sheets=%d",
		result.SessionID, req.BarbershopID, len(sheets))
	handlers.RespondJSON(w, http.StatusCreated, &OpenSessionResponse{
		SessionID: result.SessionID,
		Date:      result.Date.Format(domain.DateFormat),
		Sheets:    sheets,
	})
}
