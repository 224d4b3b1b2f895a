package get_agenda

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/BRB-ScheduleService/internal/api/handlers"
	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	resolveSchedule "github.com/m04kA/BRB-ScheduleService/internal/usecase/resolve_schedule"
)

const (
	msgInvalidBarbershopID = "некорректный идентификатор барбершопа"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase ResolveScheduleUseCase
	agenda  AgendaService
	logger  Logger
}

func NewHandler(useCase ResolveScheduleUseCase, agenda AgendaService, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		agenda:  agenda,
		logger:  logger,
	}
}

// Handle GET /api/v1/barbershops/{barbershop_id}/agenda?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barbershopID, err := strconv.ParseInt(mux.Vars(r)["barbershop_id"], 10, 64)
	if err != nil || barbershopID <= 0 {
		h.logger.Warn("GET /agenda - Invalid barbershop_id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarbershopID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /agenda - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	grid, err := h.useCase.Execute(r.Context(), &resolveSchedule.Request{
		BarbershopID: barbershopID,
		Date:         date,
	})
	if err != nil {
		switch {
		case errors.Is(err, resolveSchedule.ErrInvalidInput):
			h.logger.Warn("GET /agenda - Invalid input: barbershop_id=%d, error=%v", barbershopID, err)
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("GET /agenda - Failed to resolve schedule: barbershop_id=%d, error=%v", barbershopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	appointments, err := h.agenda.GetDayAppointments(r.Context(), barbershopID, date, false)
	if err != nil {
		h.logger.Error("GET /agenda - Failed to get appointments: barbershop_id=%d, error=%v", barbershopID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /agenda - Resolved: barbershop_id=%d, date=%s, employees=%d, appointments=%d",
		barbershopID, dateStr, len(grid.Employees), len(appointments))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(grid, appointments))
}
