package domain

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

var (
	// ErrSheetNotFound сотрудник не входит в сессию редактирования
	ErrSheetNotFound = errors.New("domain: employee sheet not found in session")
	// ErrNoActiveGesture нет активного drag-жеста
	ErrNoActiveGesture = errors.New("domain: no active drag gesture")
	// ErrGestureEmployeeMismatch жест принадлежит другому сотруднику
	ErrGestureEmployeeMismatch = errors.New("domain: drag gesture belongs to another employee")
)

// DragPolarity полярность drag-жеста в редакторе исключений.
// Фиксируется по состоянию первого слота жеста и не меняется до его конца.
type DragPolarity string

const (
	// PolarityBlocking жест блокирует все задетые слоты
	PolarityBlocking DragPolarity = "blocking"
	// PolarityUnblocking жест разблокирует все задетые слоты
	PolarityUnblocking DragPolarity = "unblocking"
)

// DragGesture транзиентное состояние текущего drag-жеста
type DragGesture struct {
	EmployeeID int64
	Polarity   DragPolarity
}

// EmployeeSheet per-employee slot sheet within an exception editing session
type EmployeeSheet struct {
	EmployeeID int64
	AllSlots   []types.TimeString
	Blocked    map[types.TimeString]struct{}
}

// IsBlocked returns true if the slot is currently marked blocked
func (s *EmployeeSheet) IsBlocked(slot types.TimeString) bool {
	_, ok := s.Blocked[slot]
	return ok
}

// SetBlocked forces the slot's blocked membership
func (s *EmployeeSheet) SetBlocked(slot types.TimeString, blocked bool) {
	if blocked {
		s.Blocked[slot] = struct{}{}
	} else {
		delete(s.Blocked, slot)
	}
}

// Toggle flips the slot's blocked membership and returns the new state
func (s *EmployeeSheet) Toggle(slot types.TimeString) bool {
	if s.IsBlocked(slot) {
		delete(s.Blocked, slot)
		return false
	}
	s.Blocked[slot] = struct{}{}
	return true
}

// AvailableSlots возвращает allSlots - blocked с сохранением порядка
func (s *EmployeeSheet) AvailableSlots() []types.TimeString {
	available := make([]types.TimeString, 0, len(s.AllSlots)-len(s.Blocked))
	for _, slot := range s.AllSlots {
		if !s.IsBlocked(slot) {
			available = append(available, slot)
		}
	}
	return available
}

// ExceptionSession сессия массового редактирования исключений доступности.
// Живёт строго в памяти: создаётся при входе в режим редактирования,
// уничтожается при commit или discard, частично не сохраняется никогда.
//
// Sheets заполняется при засеивании, до регистрации сессии в реестре.
// После регистрации к листам и жесту обращаются конкурентные HTTP
// запросы (toggle/drag против чтения агенды), поэтому весь доступ идёт
// через методы сессии под её мьютексом.
type ExceptionSession struct {
	ID           string
	BarbershopID int64
	Date         time.Time
	Sheets       map[int64]*EmployeeSheet
	CreatedAt    time.Time

	mu      sync.Mutex
	gesture *DragGesture
}

// ToggleSlot переключает слот в листе сотрудника и возвращает новое
// состояние
func (s *ExceptionSession) ToggleSlot(employeeID int64, slot types.TimeString) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, ok := s.Sheets[employeeID]
	if !ok {
		return false, ErrSheetNotFound
	}
	return sheet.Toggle(slot), nil
}

// BeginDrag атомарно фиксирует полярность жеста по состоянию первого
// слота до переключения и применяет её к нему
func (s *ExceptionSession) BeginDrag(employeeID int64, slot types.TimeString) (DragPolarity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, ok := s.Sheets[employeeID]
	if !ok {
		return "", ErrSheetNotFound
	}

	polarity := PolarityBlocking
	if sheet.IsBlocked(slot) {
		polarity = PolarityUnblocking
	}

	s.gesture = &DragGesture{EmployeeID: employeeID, Polarity: polarity}
	sheet.SetBlocked(slot, polarity == PolarityBlocking)

	return polarity, nil
}

// DragEnter применяет полярность активного жеста к очередному слоту
func (s *ExceptionSession) DragEnter(employeeID int64, slot types.TimeString) (DragPolarity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gesture == nil {
		return "", ErrNoActiveGesture
	}
	if s.gesture.EmployeeID != employeeID {
		return "", fmt.Errorf("%w: employee %d", ErrGestureEmployeeMismatch, s.gesture.EmployeeID)
	}

	sheet, ok := s.Sheets[employeeID]
	if !ok {
		return "", ErrSheetNotFound
	}

	sheet.SetBlocked(slot, s.gesture.Polarity == PolarityBlocking)
	return s.gesture.Polarity, nil
}

// EndDrag сбрасывает транзиентный контекст жеста
func (s *ExceptionSession) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gesture = nil
}

// BlockedSnapshot возвращает копию blocked-набора листа сотрудника.
// Читатели (построение сетки) работают со снимком и не держат мьютекс
// сессии дольше копирования.
func (s *ExceptionSession) BlockedSnapshot(employeeID int64) (map[types.TimeString]struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, ok := s.Sheets[employeeID]
	if !ok {
		return nil, false
	}

	blocked := make(map[types.TimeString]struct{}, len(sheet.Blocked))
	for slot := range sheet.Blocked {
		blocked[slot] = struct{}{}
	}
	return blocked, true
}

// AvailableByEmployee возвращает available-слоты каждого листа
// (allSlots - blocked) одним снимком под мьютексом
func (s *ExceptionSession) AvailableByEmployee() map[int64][]types.TimeString {
	s.mu.Lock()
	defer s.mu.Unlock()

	available := make(map[int64][]types.TimeString, len(s.Sheets))
	for employeeID, sheet := range s.Sheets {
		available[employeeID] = sheet.AvailableSlots()
	}
	return available
}

// PendingMove staged drag-to-reschedule action awaiting operator
// confirmation. Never persisted.
type PendingMove struct {
	ID            string
	AppointmentID int64
	BarbershopID  int64
	Old           Placement
	New           Placement
	NewEndTime    types.TimeString

	// DurationDefaulted отмечает, что каталог не отдал услугу и
	// длительность взята по умолчанию
	DurationDefaulted bool

	CreatedAt time.Time
}

// ConflictContext staged conflict awaiting the operator's resolution
// strategy choice. Never persisted.
type ConflictContext struct {
	ID            string
	AppointmentID int64
	BarbershopID  int64
	Old           Placement
	New           Placement
	NewEndTime    types.TimeString

	// BlockingAppointmentID запись, с которой обнаружен конфликт
	BlockingAppointmentID int64

	DurationDefaulted bool

	CreatedAt time.Time
}

// IncomingDurationMinutes длительность входящей записи в предлагаемом слоте
func (c *ConflictContext) IncomingDurationMinutes() int {
	return c.NewEndTime.Minutes() - c.New.StartTime.Minutes()
}
