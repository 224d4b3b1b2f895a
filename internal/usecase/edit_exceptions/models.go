package edit_exceptions

import (
	"time"

	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

// OpenRequest запрос на открытие сессии редактирования исключений.
// Пустой EmployeeIDs означает всех активных сотрудников барбершопа.
type OpenRequest struct {
	BarbershopID int64     `json:"barbershop_id" validate:"required,gt=0"`
	EmployeeIDs  []int64   `json:"employee_ids" validate:"omitempty,dive,gt=0"`
	Date         time.Time `json:"date" validate:"required"`
}

// SheetView состояние листа сотрудника внутри сессии
type SheetView struct {
	EmployeeID   int64              `json:"employee_id"`
	EmployeeName string             `json:"employee_name"`
	BlockedSlots []types.TimeString `json:"blocked_slots"`
}

// OpenResponse ответ с засеянными листами всех активных сотрудников
type OpenResponse struct {
	SessionID string      `json:"session_id"`
	Date      time.Time   `json:"date"`
	Sheets    []SheetView `json:"sheets"`
}

// ToggleRequest запрос на переключение одного слота
type ToggleRequest struct {
	SessionID  string           `json:"session_id" validate:"required,uuid4"`
	EmployeeID int64            `json:"employee_id" validate:"required,gt=0"`
	Slot       types.TimeString `json:"slot" validate:"required"`
}

// ToggleResponse новое состояние слота после переключения
type ToggleResponse struct {
	EmployeeID int64            `json:"employee_id"`
	Slot       types.TimeString `json:"slot"`
	Blocked    bool             `json:"blocked"`
}

// DragRequest событие drag-жеста: начало или вход в очередной слот
type DragRequest struct {
	SessionID  string           `json:"session_id" validate:"required,uuid4"`
	EmployeeID int64            `json:"employee_id" validate:"required,gt=0"`
	Slot       types.TimeString `json:"slot" validate:"required"`
}

// DragResponse состояние слота и полярность текущего жеста
type DragResponse struct {
	EmployeeID int64            `json:"employee_id"`
	Slot       types.TimeString `json:"slot"`
	Blocked    bool             `json:"blocked"`
	Polarity   string           `json:"polarity"`
}

// CommitResponse итог сохранения сессии: per-employee результаты независимы
type CommitResponse struct {
	SessionID string  `json:"session_id"`
	Saved     []int64 `json:"saved_employee_ids"`
	Failed    []int64 `json:"failed_employee_ids,omitempty"`
}
