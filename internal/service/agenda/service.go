package agenda

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
)

// Service read-сервис агенды: записи дня, состав сотрудников, исключения
// Хранилище всегда источник истины - сервис ничего не кэширует между
// операциями и перечитывает данные на каждый запрос
type Service struct {
	appointmentRepo AppointmentRepository
	employeeRepo    EmployeeRepository
	exceptionRepo   ExceptionRepository
	logger          Logger
}

// NewService создает сервис агенды
func NewService(
	appointmentRepo AppointmentRepository,
	employeeRepo EmployeeRepository,
	exceptionRepo ExceptionRepository,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		employeeRepo:    employeeRepo,
		exceptionRepo:   exceptionRepo,
		logger:          logger,
	}
}

// GetDayAppointments получает записи барбершопа на дату
// Отменённые и no-show записи исключаются из сетки, но доступны
// с includeInactive для истории
func (s *Service) GetDayAppointments(ctx context.Context, barbershopID int64, date time.Time, includeInactive bool) ([]*domain.Appointment, error) {
	if barbershopID <= 0 {
		return nil, fmt.Errorf("%w: barbershopID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByDay(ctx, domain.DayAppointmentsFilter{
		BarbershopID:    barbershopID,
		Date:            date,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		s.logger.Error("GetDayAppointments: repository error for barbershop=%d: %v", barbershopID, err)
		return nil, fmt.Errorf("%w: GetDayAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDayAppointments: fetched %d appointments for barbershop=%d, date=%s",
		len(appointments), barbershopID, date.Format(domain.DateFormat))

	return appointments, nil
}

// GetRoster получает сотрудников барбершопа с расписаниями и перерывами
func (s *Service) GetRoster(ctx context.Context, barbershopID int64, activeOnly bool) ([]*domain.Employee, error) {
	if barbershopID <= 0 {
		return nil, fmt.Errorf("%w: barbershopID must be positive", ErrInvalidInput)
	}

	employees, err := s.employeeRepo.GetByBarbershop(ctx, barbershopID, activeOnly)
	if err != nil {
		s.logger.Error("GetRoster: repository error for barbershop=%d: %v", barbershopID, err)
		return nil, fmt.Errorf("%w: GetRoster - repository error: %v", ErrInternal, err)
	}

	return employees, nil
}

// GetExceptions получает исключения доступности сотрудников на дату
func (s *Service) GetExceptions(ctx context.Context, employeeIDs []int64, date time.Time) (map[int64]*domain.AvailabilityException, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	exceptions, err := s.exceptionRepo.GetByEmployeesAndDate(ctx, employeeIDs, date)
	if err != nil {
		s.logger.Error("GetExceptions: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetExceptions - repository error: %v", ErrInternal, err)
	}

	return exceptions, nil
}
