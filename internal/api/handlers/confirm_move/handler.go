package confirm_move

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/BRB-ScheduleService/internal/api/handlers"
	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	moveAppointment "github.com/m04kA/BRB-ScheduleService/internal/usecase/move_appointment"
)

const (
	msgMoveNotFound        = "отложенный перенос не найден или уже обработан"
	msgAppointmentNotFound = "запись не найдена"
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

// ConfirmMoveResponse HTTP response model
type ConfirmMoveResponse struct {
	AppointmentID int64  `json:"appointmentId"`
	EmployeeID    int64  `json:"employeeId"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
}

// HandleConfirm POST /api/v1/moves/{move_id}/confirm
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	moveID := mux.Vars(r)["move_id"]

	result, err := h.useCase.Confirm(r.Context(), moveID)
	if err != nil {
		switch {
		case errors.Is(err, moveAppointment.ErrMoveNotFound):
			h.logger.Warn("POST /moves/confirm - Move not found: move_id=%s", moveID)
			handlers.RespondNotFound(w, msgMoveNotFound)

		case errors.Is(err, moveAppointment.ErrAppointmentNotFound):
			h.logger.Warn("POST /moves/confirm - Appointment not found: move_id=%s", moveID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		default:
			h.logger.Error("POST /moves/confirm - Failed to confirm move: move_id=%s, error=%v", moveID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /moves/confirm - Confirmed: move_id=%s, appointment_id=%d", moveID, result.AppointmentID)
	handlers.RespondJSON(w, http.StatusOK, &ConfirmMoveResponse{
		AppointmentID: result.AppointmentID,
		EmployeeID:    result.EmployeeID,
		Date:          result.Date.Format(domain.DateFormat),
		StartTime:     result.StartTime.String(),
		EndTime:       result.EndTime.String(),
	})
}

// HandleCancel DELETE /api/v1/moves/{move_id}
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	moveID := mux.Vars(r)["move_id"]

	if err := h.useCase.Cancel(moveID); err != nil {
		h.logger.Warn("DELETE /moves - Move not found: move_id=%s", moveID)
		handlers.RespondNotFound(w, msgMoveNotFound)
		return
	}

	h.logger.Info("DELETE /moves - Cancelled: move_id=%s", moveID)
	handlers.RespondNoContent(w)
}
