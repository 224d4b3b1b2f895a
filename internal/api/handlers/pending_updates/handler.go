package pending_updates

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/BRB-ScheduleService/internal/api/handlers"
)

const (
	msgInvalidBarbershopID = "некорректный идентификатор барбершопа"
)

type Handler struct {
	feed   UpdatesFeed
	logger Logger
}

func NewHandler(feed UpdatesFeed, logger Logger) *Handler {
	return &Handler{
		feed:   feed,
		logger: logger,
	}
}

// PendingUpdatesResponse HTTP response model
type PendingUpdatesResponse struct {
	BarbershopID int64 `json:"barbershopId"`
	Pending      int64 `json:"pending"`
}

// HandleGet GET /api/v1/barbershops/{barbershop_id}/pending-updates
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	barbershopID, ok := h.barbershopID(w, r, "GET")
	if !ok {
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &PendingUpdatesResponse{
		BarbershopID: barbershopID,
		Pending:      h.feed.PendingUpdates(barbershopID),
	})
}

// HandleAck POST /api/v1/barbershops/{barbershop_id}/pending-updates/ack
func (h *Handler) HandleAck(w http.ResponseWriter, r *http.Request) {
	barbershopID, ok := h.barbershopID(w, r, "POST")
	if !ok {
		return
	}

	h.feed.Ack(barbershopID)
	h.logger.Info("POST /pending-updates/ack - Acked: barbershop_id=%d", barbershopID)
	handlers.RespondNoContent(w)
}

func (h *Handler) barbershopID(w http.ResponseWriter, r *http.Request, method string) (int64, bool) {
	barbershopID, err := strconv.ParseInt(mux.Vars(r)["barbershop_id"], 10, 64)
	if err != nil || barbershopID <= 0 {
		h.logger.Warn("%s /pending-updates - Invalid barbershop_id: %v", method, err)
		handlers.RespondBadRequest(w, msgInvalidBarbershopID)
		return 0, false
	}
	return barbershopID, true
}
