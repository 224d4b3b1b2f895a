package resolve_schedule

import (
	"context"
	"fmt"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

// UseCase use case построения сетки доступности на день
type UseCase struct {
	employeeRepo  EmployeeRepository
	exceptionRepo ExceptionRepository
	sessions      SessionRegistry
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	employeeRepo EmployeeRepository,
	exceptionRepo ExceptionRepository,
	sessions SessionRegistry,
	logger Logger,
) *UseCase {
	return &UseCase{
		employeeRepo:  employeeRepo,
		exceptionRepo: exceptionRepo,
		sessions:      sessions,
		logger:        logger,
	}
}

// Execute строит общую сетку доступности для всех активных сотрудников.
// Вердикт каждого слота вычисляется в строгом порядке приоритетов:
// активная сессия редактирования, затем персистентное исключение, перерыв,
// правило недельного расписания.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ResolveSchedule: barbershop=%d, date=%s",
		req.BarbershopID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ResolveSchedule: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем активных сотрудников с расписаниями и перерывами
	employees, err := uc.employeeRepo.GetByBarbershop(ctx, req.BarbershopID, true)
	if err != nil {
		uc.logger.Error("ResolveSchedule: failed to get employees: %v", err)
		return nil, fmt.Errorf("%w: failed to get employees: %v", ErrInternal, err)
	}

	// 3. Получаем персистентные исключения на дату
	employeeIDs := make([]int64, 0, len(employees))
	for _, emp := range employees {
		employeeIDs = append(employeeIDs, emp.ID)
	}

	exceptions, err := uc.exceptionRepo.GetByEmployeesAndDate(ctx, employeeIDs, req.Date)
	if err != nil {
		uc.logger.Error("ResolveSchedule: failed to get exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get exceptions: %v", ErrInternal, err)
	}

	// 4. Активная сессия редактирования перекрывает персистентные данные
	session := uc.sessions.SessionForBarbershop(req.BarbershopID)

	// 5. Вычисляем границы общей сетки
	gridStart, gridEnd := domain.GridBounds(employees)
	slots := domain.GenerateSlots(gridStart, gridEnd)

	// 6. Строим вердикты по каждому сотруднику
	grids := make([]EmployeeGrid, 0, len(employees))
	for _, emp := range employees {
		grid := EmployeeGrid{
			EmployeeID: emp.ID,
			Name:       emp.Name,
			Verdicts:   make([]domain.SlotVerdict, len(slots)),
		}

		var (
			sessionBlocked map[types.TimeString]struct{}
			inSession      bool
		)
		if session != nil {
			sessionBlocked, inSession = session.BlockedSnapshot(emp.ID)
		}

		for i, slot := range slots {
			if inSession {
				// Во время редактирования доступность - это ровно
				// "не в blocked-наборе сессии"; расписание и перерывы
				// игнорируются полностью
				if _, blocked := sessionBlocked[slot]; blocked {
					grid.Verdicts[i] = domain.SlotBlockedException
				} else {
					grid.Verdicts[i] = domain.SlotAvailable
				}
				continue
			}

			grid.Verdicts[i] = domain.ResolveSlot(emp, exceptions[emp.ID], req.Date, slot)
		}

		grids = append(grids, grid)
	}

	uc.logger.Info("ResolveSchedule: built grid %s-%s (%d slots) for %d employees",
		gridStart, gridEnd, len(slots), len(grids))

	return &Response{
		BarbershopID:         req.BarbershopID,
		Date:                 req.Date,
		Slots:                slots,
		Employees:            grids,
		EditingSessionActive: session != nil,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BarbershopID <= 0 {
		return fmt.Errorf("%w: barbershopID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}
