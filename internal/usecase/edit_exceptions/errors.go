package edit_exceptions

import "errors"

var (
	// ErrInvalidInput - невалидные входные данные
	ErrInvalidInput = errors.New("edit_exceptions: invalid input")
	// ErrSessionNotFound - сессия не найдена или уже завершена
	ErrSessionNotFound = errors.New("edit_exceptions: session not found")
	// ErrSessionAlreadyOpen - для барбершопа уже открыта сессия
	ErrSessionAlreadyOpen = errors.New("edit_exceptions: session already open for barbershop")
	// ErrEmployeeNotInSession - сотрудник не входит в сессию
	ErrEmployeeNotInSession = errors.New("edit_exceptions: employee not in session")
	// ErrNoActiveDrag - жест не начат, а пришло событие drag-enter или drag-end
	ErrNoActiveDrag = errors.New("edit_exceptions: no active drag gesture")
	// ErrUnalignedSlot - время слота не кратно шагу сетки
	ErrUnalignedSlot = errors.New("edit_exceptions: slot is not aligned to grid step")
	// ErrInternal - внутренняя ошибка сервиса
	ErrInternal = errors.New("edit_exceptions: internal error")
)
