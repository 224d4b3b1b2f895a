package sessionstore

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия редактирования не найдена
	ErrSessionNotFound = errors.New("sessionstore: exception session not found")

	// ErrSessionAlreadyOpen возвращается при попытке открыть вторую сессию
	// для того же барбершопа
	ErrSessionAlreadyOpen = errors.New("sessionstore: exception session already open for barbershop")

	// ErrExceptionModeActive возвращается при попытке застейджить перенос,
	// пока открыта сессия редактирования исключений
	ErrExceptionModeActive = errors.New("sessionstore: exception editing mode is active")

	// ErrMoveNotFound возвращается, когда отложенный перенос не найден
	ErrMoveNotFound = errors.New("sessionstore: pending move not found")

	// ErrConflictNotFound возвращается, когда конфликт не найден
	ErrConflictNotFound = errors.New("sessionstore: conflict context not found")
)
