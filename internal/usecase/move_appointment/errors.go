package move_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("move_appointment: appointment not found")

	// ErrExceptionModeActive возвращается при попытке переноса во время
	// открытой сессии редактирования исключений - режимы взаимоисключающие
	ErrExceptionModeActive = errors.New("move_appointment: exception editing mode is active")

	// ErrMoveNotFound возвращается, когда отложенный перенос не найден
	// (истёк, уже подтверждён или отменён)
	ErrMoveNotFound = errors.New("move_appointment: pending move not found")

	// ErrInactiveAppointment возвращается при попытке перенести отменённую
	// или no-show запись
	ErrInactiveAppointment = errors.New("move_appointment: appointment is not active")

	// ErrUnalignedTime возвращается, когда время начала не кратно шагу сетки
	ErrUnalignedTime = errors.New("move_appointment: start time is not aligned to slot grid")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("move_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("move_appointment: internal error")
)
