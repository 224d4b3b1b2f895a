package propose_move

import (
	"time"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	moveAppointment "github.com/m04kA/BRB-ScheduleService/internal/usecase/move_appointment"
	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

// ProposeMoveRequest HTTP request model
type ProposeMoveRequest struct {
	AppointmentID int64  `json:"appointmentId" validate:"required,gt=0"`
	NewEmployeeID int64  `json:"newEmployeeId" validate:"required,gt=0"`
	NewDate       string `json:"newDate" validate:"required"`      // "2026-09-01"
	NewStartTime  string `json:"newStartTime" validate:"required"` // "14:30"
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ProposeMoveRequest) ToUseCaseRequest() (*moveAppointment.ProposeRequest, error) {
	newDate, err := time.Parse(domain.DateFormat, r.NewDate)
	if err != nil {
		return nil, err
	}

	newStartTime, err := types.NewTimeStringFromString(r.NewStartTime)
	if err != nil {
		return nil, err
	}

	return &moveAppointment.ProposeRequest{
		AppointmentID: r.AppointmentID,
		NewEmployeeID: r.NewEmployeeID,
		NewDate:       newDate,
		NewStartTime:  newStartTime,
	}, nil
}

// PlacementResponse размещение записи в агенде
type PlacementResponse struct {
	EmployeeID int64  `json:"employeeId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
}

// BlockingResponse сводка мешающей записи
type BlockingResponse struct {
	ID         int64  `json:"id"`
	ClientName string `json:"clientName"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Status     string `json:"status"`
}

// ProposeMoveResponse HTTP response model
type ProposeMoveResponse struct {
	Outcome           string            `json:"outcome"`
	MoveID            string            `json:"moveId,omitempty"`
	ConflictID        string            `json:"conflictId,omitempty"`
	Blocking          *BlockingResponse `json:"blocking,omitempty"`
	Old               PlacementResponse `json:"old"`
	New               PlacementResponse `json:"new"`
	NewEndTime        string            `json:"newEndTime,omitempty"`
	DurationDefaulted bool              `json:"durationDefaulted,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *moveAppointment.ProposeResponse) *ProposeMoveResponse {
	out := &ProposeMoveResponse{
		Outcome:           string(resp.Outcome),
		MoveID:            resp.MoveID,
		ConflictID:        resp.ConflictID,
		Old:               placementResponse(resp.Old),
		New:               placementResponse(resp.New),
		DurationDefaulted: resp.DurationDefaulted,
	}

	if !resp.NewEndTime.IsZero() {
		out.NewEndTime = resp.NewEndTime.String()
	}

	if resp.Blocking != nil {
		out.Blocking = &BlockingResponse{
			ID:         resp.Blocking.ID,
			ClientName: resp.Blocking.ClientName,
			StartTime:  resp.Blocking.StartTime.String(),
			EndTime:    resp.Blocking.EndTime.String(),
			Status:     resp.Blocking.Status,
		}
	}

	return out
}

func placementResponse(p domain.Placement) PlacementResponse {
	return PlacementResponse{
		EmployeeID: p.EmployeeID,
		Date:       p.Date.Format(domain.DateFormat),
		StartTime:  p.StartTime.String(),
	}
}
