package sessionstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
)

// Store реестр эфемерного состояния рабочих процессов агенды:
// сессии редактирования исключений, отложенные переносы и контексты
// конфликтов. Всё состояние живёт только в памяти процесса и
// уничтожается при commit/confirm/discard.
//
// Режимы взаимоисключающие на уровне самого реестра: пока для барбершопа
// открыта сессия редактирования, застейджить перенос нельзя - недопустимые
// комбинации состояний непредставимы, а не охраняются флагами в хендлерах.
type Store struct {
	mu sync.Mutex

	sessions      map[string]*domain.ExceptionSession
	sessionByShop map[int64]string

	moves     map[string]*domain.PendingMove
	conflicts map[string]*domain.ConflictContext
}

// New создает пустой реестр
func New() *Store {
	return &Store{
		sessions:      make(map[string]*domain.ExceptionSession),
		sessionByShop: make(map[int64]string),
		moves:         make(map[string]*domain.PendingMove),
		conflicts:     make(map[string]*domain.ConflictContext),
	}
}

// OpenSession регистрирует новую сессию редактирования и возвращает её id
// Для барбершопа может быть открыта только одна сессия
func (s *Store) OpenSession(session *domain.ExceptionSession) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessionByShop[session.BarbershopID]; ok {
		return "", ErrSessionAlreadyOpen
	}

	session.ID = uuid.NewString()
	session.CreatedAt = time.Now()

	s.sessions[session.ID] = session
	s.sessionByShop[session.BarbershopID] = session.ID

	return session.ID, nil
}

// Session возвращает сессию по id
func (s *Store) Session(id string) (*domain.ExceptionSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// SessionForBarbershop возвращает открытую сессию барбершопа, если она есть
func (s *Store) SessionForBarbershop(barbershopID int64) *domain.ExceptionSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.sessionByShop[barbershopID]
	if !ok {
		return nil
	}
	return s.sessions[id]
}

// HasOpenSession возвращает true, если для барбершопа открыта сессия
func (s *Store) HasOpenSession(barbershopID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessionByShop[barbershopID]
	return ok
}

// CloseSession удаляет сессию (после commit или discard)
func (s *Store) CloseSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	delete(s.sessions, id)
	delete(s.sessionByShop, session.BarbershopID)
	return nil
}

// StageMove стейджит отложенный перенос и возвращает его id
// Отклоняется, пока для барбершопа открыта сессия редактирования
func (s *Store) StageMove(move *domain.PendingMove) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessionByShop[move.BarbershopID]; ok {
		return "", ErrExceptionModeActive
	}

	move.ID = uuid.NewString()
	move.CreatedAt = time.Now()
	s.moves[move.ID] = move

	return move.ID, nil
}

// TakeMove извлекает перенос, удаляя его из реестра.
// Застейдженное состояние очищается независимо от исхода персистенции:
// при ошибке оператор инициирует действие заново.
func (s *Store) TakeMove(id string) (*domain.PendingMove, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	move, ok := s.moves[id]
	if !ok {
		return nil, ErrMoveNotFound
	}

	delete(s.moves, id)
	return move, nil
}

// DropMove отбрасывает перенос без каких-либо побочных эффектов
func (s *Store) DropMove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.moves[id]; !ok {
		return ErrMoveNotFound
	}

	delete(s.moves, id)
	return nil
}

// StageConflict стейджит контекст конфликта и возвращает его id
func (s *Store) StageConflict(conflict *domain.ConflictContext) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessionByShop[conflict.BarbershopID]; ok {
		return "", ErrExceptionModeActive
	}

	conflict.ID = uuid.NewString()
	conflict.CreatedAt = time.Now()
	s.conflicts[conflict.ID] = conflict

	return conflict.ID, nil
}

// TakeConflict извлекает контекст конфликта, удаляя его из реестра
func (s *Store) TakeConflict(id string) (*domain.ConflictContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conflict, ok := s.conflicts[id]
	if !ok {
		return nil, ErrConflictNotFound
	}

	delete(s.conflicts, id)
	return conflict, nil
}

// DropConflict отбрасывает контекст конфликта без побочных эффектов
// Используется, когда оператор закрывает диалог, не выбрав стратегию
func (s *Store) DropConflict(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conflicts[id]; !ok {
		return ErrConflictNotFound
	}

	delete(s.conflicts, id)
	return nil
}
