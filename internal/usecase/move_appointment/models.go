package move_appointment

import (
	"time"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

// Outcome исход предложения переноса
type Outcome string

const (
	// OutcomeNoop размещение не изменилось - перенос не нужен
	OutcomeNoop Outcome = "noop"
	// OutcomeStaged перенос застейджен и ждёт подтверждения оператора
	OutcomeStaged Outcome = "staged"
	// OutcomeConflict обнаружен конфликт, застейджен контекст конфликта
	OutcomeConflict Outcome = "conflict"
)

// ProposeRequest модель запроса на предложение переноса
type ProposeRequest struct {
	AppointmentID int64            // ID переносимой записи
	NewEmployeeID int64            // Новый сотрудник
	NewDate       time.Time        // Новая дата (без времени)
	NewStartTime  types.TimeString // Новое время начала (например, "14:30")
}

// ProposeResponse модель ответа на предложение переноса
type ProposeResponse struct {
	Outcome Outcome

	// MoveID заполнен при Outcome == staged
	MoveID string
	// ConflictID и Blocking заполнены при Outcome == conflict
	ConflictID string
	Blocking   *BlockingAppointment

	Old        domain.Placement
	New        domain.Placement
	NewEndTime types.TimeString

	// DurationDefaulted отмечает, что каталог не отдал услугу и
	// длительность взята по умолчанию (60 минут)
	DurationDefaulted bool
}

// BlockingAppointment сводка записи, с которой обнаружен конфликт
type BlockingAppointment struct {
	ID         int64
	ClientName string
	StartTime  types.TimeString
	EndTime    types.TimeString
	Status     string
}

// ConfirmResponse модель ответа на подтверждение переноса
type ConfirmResponse struct {
	AppointmentID int64
	EmployeeID    int64
	Date          time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
}
