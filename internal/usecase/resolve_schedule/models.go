package resolve_schedule

import (
	"time"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

// Request модель запроса на построение сетки агенды
type Request struct {
	BarbershopID int64     // ID барбершопа
	Date         time.Time // Дата (без времени)
}

// Response модель ответа с общей сеткой доступности на день
type Response struct {
	BarbershopID int64
	Date         time.Time
	Slots        []types.TimeString // Общая временная шкала сетки
	Employees    []EmployeeGrid     // Вердикты по каждому активному сотруднику

	// EditingSessionActive отмечает, что сетка построена из активной
	// сессии редактирования исключений, а не из персистентных данных
	EditingSessionActive bool
}

// EmployeeGrid вердикты доступности одного сотрудника
// Verdicts[i] соответствует Slots[i] из Response
type EmployeeGrid struct {
	EmployeeID int64
	Name       string
	Verdicts   []domain.SlotVerdict
}
