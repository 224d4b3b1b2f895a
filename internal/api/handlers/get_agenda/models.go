package get_agenda

import (
	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	resolveSchedule "github.com/m04kA/BRB-ScheduleService/internal/usecase/resolve_schedule"
)

// AgendaResponse HTTP response model
type AgendaResponse struct {
	BarbershopID         int64                 `json:"barbershopId"`
	Date                 string                `json:"date"`
	EditingSessionActive bool                  `json:"editingSessionActive"`
	Slots                []string              `json:"slots"`
	Employees            []EmployeeGrid        `json:"employees"`
	Appointments         []AppointmentResponse `json:"appointments"`
}

// EmployeeGrid вердикты доступности одного сотрудника по общей шкале
type EmployeeGrid struct {
	EmployeeID int64    `json:"employeeId"`
	Name       string   `json:"name"`
	Verdicts   []string `json:"verdicts"`
}

// AppointmentResponse запись в агенде
type AppointmentResponse struct {
	ID          int64   `json:"id"`
	EmployeeID  int64   `json:"employeeId"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Status      string  `json:"status"`
	ServiceID   int64   `json:"serviceId"`
	ClientName  string  `json:"clientName"`
	ClientPhone *string `json:"clientPhone,omitempty"`
}

// FromUseCaseResponse конвертирует ответы use case и сервиса агенды в HTTP response
func FromUseCaseResponse(grid *resolveSchedule.Response, appointments []*domain.Appointment) *AgendaResponse {
	slots := make([]string, 0, len(grid.Slots))
	for _, slot := range grid.Slots {
		slots = append(slots, slot.String())
	}

	employees := make([]EmployeeGrid, 0, len(grid.Employees))
	for _, emp := range grid.Employees {
		verdicts := make([]string, 0, len(emp.Verdicts))
		for _, v := range emp.Verdicts {
			verdicts = append(verdicts, string(v))
		}
		employees = append(employees, EmployeeGrid{
			EmployeeID: emp.EmployeeID,
			Name:       emp.Name,
			Verdicts:   verdicts,
		})
	}

	appts := make([]AppointmentResponse, 0, len(appointments))
	for _, appt := range appointments {
		appts = append(appts, AppointmentResponse{
			ID:          appt.ID,
			EmployeeID:  appt.EmployeeID,
			StartTime:   appt.StartTime.String(),
			EndTime:     appt.EndTime.String(),
			Status:      string(appt.Status),
			ServiceID:   appt.ServiceID,
			ClientName:  appt.ClientName,
			ClientPhone: appt.ClientPhone,
		})
	}

	return &AgendaResponse{
		BarbershopID:         grid.BarbershopID,
		Date:                 grid.Date.Format(domain.DateFormat),
		EditingSessionActive: grid.EditingSessionActive,
		Slots:                slots,
		Employees:            employees,
		Appointments:         appts,
	}
}
