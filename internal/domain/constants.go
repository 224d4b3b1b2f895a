package domain

// Slot grid constants
const (
	// SlotStepMinutes шаг сетки слотов - 10 минут
	SlotStepMinutes = 10

	// DefaultServiceDurationMinutes длительность услуги по умолчанию,
	// когда каталог не смог её отдать
	DefaultServiceDurationMinutes = 60

	// DefaultGridStart начало сетки агенды, когда нет данных расписаний
	DefaultGridStart = "08:00"

	// DefaultGridEnd конец сетки агенды, когда нет данных расписаний
	DefaultGridEnd = "20:00"

	// DayStart начало суток для редактора исключений
	DayStart = "00:00"

	// DayEnd правая граница суток
	DayEnd = "24:00"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не участвующих в проверке конфликтов
// и не отображаемых в сетке записи
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}
