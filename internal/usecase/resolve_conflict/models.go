package resolve_conflict

import "github.com/m04kA/BRB-ScheduleService/pkg/types"

// Strategy стратегия разрешения конфликта
type Strategy string

const (
	StrategyCancelConflicting Strategy = "cancel_conflicting"
	StrategyReduceDuration    Strategy = "reduce_duration"
	StrategyMoveConflicting   Strategy = "move_conflicting"
	StrategyDismiss           Strategy = "dismiss"
)

// Valid проверяет, что стратегия известна
func (s Strategy) Valid() bool {
	switch s {
	case StrategyCancelConflicting, StrategyReduceDuration, StrategyMoveConflicting, StrategyDismiss:
		return true
	}
	return false
}

// Request запрос на разрешение конфликта
type Request struct {
	ConflictID string   `json:"conflict_id" validate:"required,uuid4"`
	Strategy   Strategy `json:"strategy" validate:"required"`
}

// Response результат разрешения конфликта
type Response struct {
	ConflictID string   `json:"conflict_id"`
	Strategy   Strategy `json:"strategy"`
	// BlockingUpdated - мутация мешающей записи применена
	BlockingUpdated bool `json:"blocking_updated"`
	// IncomingUpdated - перенос исходной записи применён
	IncomingUpdated bool `json:"incoming_updated"`
	// IncomingStart/IncomingEnd - итоговое время исходной записи
	IncomingStart types.TimeString `json:"incoming_start,omitempty"`
	IncomingEnd   types.TimeString `json:"incoming_end,omitempty"`
	// DurationDefaulted - длительность услуги мешающей записи взята по умолчанию
	DurationDefaulted bool `json:"duration_defaulted,omitempty"`
}
