package propose_move

import (
	"errors"
	"net/http"

	"github.com/m04kA/BRB-ScheduleService/internal/api/handlers"
	moveAppointment "github.com/m04kA/BRB-ScheduleService/internal/usecase/move_appointment"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgAppointmentNotFound = "запись не найдена"
	msgInactiveAppointment = "запись отменена или помечена как неявка"
	msgExceptionModeActive = "перенос недоступен: открыт режим редактирования исключений"
	msgUnalignedTime       = "время начала должно быть кратно шагу сетки 10 минут"
)

type Handler struct {
	useCase MoveUseCase
	logger  Logger
}

func NewHandler(useCase MoveUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/moves
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ProposeMoveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /moves - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("POST /moves - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /moves - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Propose(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, moveAppointment.ErrAppointmentNotFound):
			h.logger.Warn("POST /moves - Appointment not found: appointment_id=%d", req.AppointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, moveAppointment.ErrInactiveAppointment):
			h.logger.Warn("POST /moves - Inactive appointment: appointment_id=%d", req.AppointmentID)
			handlers.RespondError(w, http.StatusConflict, msgInactiveAppointment)

		case errors.Is(err, moveAppointment.ErrExceptionModeActive):
			h.logger.Warn("POST /moves - Exception mode active: appointment_id=%d", req.AppointmentID)
			handlers.RespondError(w, http.StatusConflict, msgExceptionModeActive)

		case errors.Is(err, moveAppointment.ErrUnalignedTime):
			h.logger.Warn("POST /moves - Unaligned time: appointment_id=%d, time=%s", req.AppointmentID, req.NewStartTime)
			handlers.RespondBadRequest(w, msgUnalignedTime)

		case errors.Is(err, moveAppointment.ErrInvalidInput):
			h.logger.Warn("POST /moves - Invalid input: appointment_id=%d, error=%v", req.AppointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /moves - Failed to propose move: appointment_id=%d, error=%v", req.AppointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /moves - Proposed: appointment_id=%d, outcome=%s", req.AppointmentID, result.Outcome)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
