package resolve_conflict

import "errors"

var (
	// ErrConflictNotFound - конфликт не найден или уже разрешён
	ErrConflictNotFound = errors.New("resolve_conflict: conflict not found")
	// ErrUnknownStrategy - неизвестная стратегия разрешения
	ErrUnknownStrategy = errors.New("resolve_conflict: unknown strategy")
	// ErrAppointmentNotFound - запись не найдена
	ErrAppointmentNotFound = errors.New("resolve_conflict: appointment not found")
	// ErrNonPositiveDuration - сокращение даёт нулевую или отрицательную длительность
	ErrNonPositiveDuration = errors.New("resolve_conflict: reduced duration is not positive")
	// ErrCascadeConflict - перенос мешающей записи создаёт новый конфликт
	ErrCascadeConflict = errors.New("resolve_conflict: cascade conflict")
	// ErrPartialResolution - часть мутаций применена, часть завершилась ошибкой
	ErrPartialResolution = errors.New("resolve_conflict: partially applied")
	// ErrInternal - внутренняя ошибка сервиса
	ErrInternal = errors.New("resolve_conflict: internal error")
)
