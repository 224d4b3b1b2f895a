package edit_exceptions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	"github.com/m04kA/BRB-ScheduleService/internal/service/sessionstore"
	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

// UseCase use case массового редактирования исключений доступности
type UseCase struct {
	employeeRepo  EmployeeRepository
	exceptionRepo ExceptionRepository
	registry      SessionRegistry
	changeFeed    ChangeFeed
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	employeeRepo EmployeeRepository,
	exceptionRepo ExceptionRepository,
	registry SessionRegistry,
	changeFeed ChangeFeed,
	logger Logger,
) *UseCase {
	return &UseCase{
		employeeRepo:  employeeRepo,
		exceptionRepo: exceptionRepo,
		registry:      registry,
		changeFeed:    changeFeed,
		logger:        logger,
	}
}

// Open открывает сессию редактирования на дату: засеивает полнодневные
// листы выбранных (по умолчанию всех активных) сотрудников из их текущей
// доступности. Пока сессия открыта, переносы записей для барбершопа
// заблокированы.
func (uc *UseCase) Open(ctx context.Context, req *OpenRequest) (*OpenResponse, error) {
	uc.logger.Info("OpenExceptionSession: barbershop=%d, date=%s",
		req.BarbershopID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateOpenRequest(req); err != nil {
		uc.logger.Warn("OpenExceptionSession: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)

	// 2. Получаем активных сотрудников барбершопа
	employees, err := uc.employeeRepo.GetByBarbershop(ctx, req.BarbershopID, true)
	if err != nil {
		uc.logger.Error("OpenExceptionSession: failed to get employees: %v", err)
		return nil, fmt.Errorf("%w: failed to get employees: %v", ErrInternal, err)
	}

	// 3. Оператор может ограничить сессию подмножеством сотрудников;
	// пустой список означает всех активных
	if len(req.EmployeeIDs) > 0 {
		employees, err = selectEmployees(employees, req.EmployeeIDs)
		if err != nil {
			uc.logger.Warn("OpenExceptionSession: %v", err)
			return nil, err
		}
	}

	// 4. Подтягиваем существующие исключения на дату одним запросом
	employeeIDs := make([]int64, 0, len(employees))
	for _, emp := range employees {
		employeeIDs = append(employeeIDs, emp.ID)
	}

	exceptions, err := uc.exceptionRepo.GetByEmployeesAndDate(ctx, employeeIDs, date)
	if err != nil {
		uc.logger.Error("OpenExceptionSession: failed to get exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get exceptions: %v", ErrInternal, err)
	}

	// 5. Засеиваем per-employee листы из текущей доступности
	session := &domain.ExceptionSession{
		BarbershopID: req.BarbershopID,
		Date:         date,
		Sheets:       make(map[int64]*domain.EmployeeSheet, len(employees)),
	}

	views := make([]SheetView, 0, len(employees))
	for _, emp := range employees {
		sheet := seedSheet(emp, exceptions[emp.ID], date)
		session.Sheets[emp.ID] = sheet
		views = append(views, SheetView{
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			BlockedSlots: sortedBlocked(sheet),
		})
	}

	// 6. Регистрируем сессию; вторая сессия на тот же барбершоп отклоняется
	sessionID, err := uc.registry.OpenSession(session)
	if err != nil {
		if errors.Is(err, sessionstore.ErrSessionAlreadyOpen) {
			uc.logger.Warn("OpenExceptionSession: session already open for barbershop=%d", req.BarbershopID)
			return nil, ErrSessionAlreadyOpen
		}
		uc.logger.Error("OpenExceptionSession: failed to register session: %v", err)
		return nil, fmt.Errorf("%w: failed to register session: %v", ErrInternal, err)
	}

	uc.logger.Info("OpenExceptionSession: session %s opened, %d sheets", sessionID, len(views))

	return &OpenResponse{
		SessionID: sessionID,
		Date:      date,
		Sheets:    views,
	}, nil
}

// ToggleSlot переключает один слот в листе сотрудника. Меняется только
// состояние в памяти сессии, ничего не персистится до commit.
func (uc *UseCase) ToggleSlot(req *ToggleRequest) (*ToggleResponse, error) {
	if err := validateSlot(req.Slot); err != nil {
		return nil, err
	}

	session, err := uc.registry.Session(req.SessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	blocked, err := session.ToggleSlot(req.EmployeeID, req.Slot)
	if err != nil {
		return nil, ErrEmployeeNotInSession
	}

	return &ToggleResponse{
		EmployeeID: req.EmployeeID,
		Slot:       req.Slot,
		Blocked:    blocked,
	}, nil
}

// BeginDrag начинает drag-жест. Полярность фиксируется по состоянию
// первого слота до переключения: нажатие на заблокированный слот делает
// весь жест разблокирующим и наоборот.
func (uc *UseCase) BeginDrag(req *DragRequest) (*DragResponse, error) {
	if err := validateSlot(req.Slot); err != nil {
		return nil, err
	}

	session, err := uc.registry.Session(req.SessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	polarity, err := session.BeginDrag(req.EmployeeID, req.Slot)
	if err != nil {
		return nil, ErrEmployeeNotInSession
	}

	return &DragResponse{
		EmployeeID: req.EmployeeID,
		Slot:       req.Slot,
		Blocked:    polarity == domain.PolarityBlocking,
		Polarity:   string(polarity),
	}, nil
}

// DragEnter применяет полярность текущего жеста к очередному слоту.
// Слоты, уже находящиеся в целевом состоянии, не меняются - повторный
// проход по слоту внутри одного жеста безопасен.
func (uc *UseCase) DragEnter(req *DragRequest) (*DragResponse, error) {
	if err := validateSlot(req.Slot); err != nil {
		return nil, err
	}

	session, err := uc.registry.Session(req.SessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	polarity, err := session.DragEnter(req.EmployeeID, req.Slot)
	switch {
	case errors.Is(err, domain.ErrNoActiveGesture):
		return nil, ErrNoActiveDrag
	case errors.Is(err, domain.ErrGestureEmployeeMismatch):
		// Жест не пересекает строки сотрудников
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrSheetNotFound):
		return nil, ErrEmployeeNotInSession
	}

	return &DragResponse{
		EmployeeID: req.EmployeeID,
		Slot:       req.Slot,
		Blocked:    polarity == domain.PolarityBlocking,
		Polarity:   string(polarity),
	}, nil
}

// EndDrag завершает текущий жест. Состояние листов уже применено по ходу
// жеста, здесь только сбрасывается его транзиентный контекст.
func (uc *UseCase) EndDrag(sessionID string) error {
	session, err := uc.registry.Session(sessionID)
	if err != nil {
		return ErrSessionNotFound
	}
	session.EndDrag()
	return nil
}

// Commit сохраняет листы сессии как исключения доступности: available
// слоты каждого сотрудника схлопываются в диапазоны и апсертятся одной
// строкой на (сотрудник, дата). Сотрудники сохраняются параллельно и
// независимо: ошибка одного не откатывает остальных. Сессия закрывается
// независимо от исхода.
func (uc *UseCase) Commit(ctx context.Context, sessionID string) (*CommitResponse, error) {
	session, err := uc.registry.Session(sessionID)
	if err != nil {
		uc.logger.Warn("CommitExceptionSession: session %s not found", sessionID)
		return nil, ErrSessionNotFound
	}

	// Снимок available-слотов берётся один раз под мьютексом сессии,
	// дальше горутины работают со своими копиями
	available := session.AvailableByEmployee()

	uc.logger.Info("CommitExceptionSession: session %s, %d sheets", sessionID, len(available))

	var (
		mu     sync.Mutex
		saved  []int64
		failed []int64
	)

	var wg sync.WaitGroup
	for employeeID, slots := range available {
		wg.Add(1)
		go func(employeeID int64, slots []types.TimeString) {
			defer wg.Done()

			exc := &domain.AvailabilityException{
				EmployeeID: employeeID,
				Date:       session.Date,
				Ranges:     domain.CollapseToRanges(slots),
			}

			if err := uc.exceptionRepo.Upsert(ctx, exc); err != nil {
				uc.logger.Error("CommitExceptionSession: upsert for employee=%d failed: %v", employeeID, err)
				mu.Lock()
				failed = append(failed, employeeID)
				mu.Unlock()
				return
			}

			mu.Lock()
			saved = append(saved, employeeID)
			mu.Unlock()
		}(employeeID, slots)
	}
	wg.Wait()

	sort.Slice(saved, func(i, j int) bool { return saved[i] < saved[j] })
	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })

	if err := uc.registry.CloseSession(sessionID); err != nil {
		uc.logger.Warn("CommitExceptionSession: failed to close session %s: %v", sessionID, err)
	}

	// Уведомляем подписчиков, если хоть что-то сохранилось
	if len(saved) > 0 {
		if err := uc.changeFeed.AvailabilityChanged(ctx, session.BarbershopID); err != nil {
			uc.logger.Warn("CommitExceptionSession: changefeed publish failed: %v", err)
		}
	}

	uc.logger.Info("CommitExceptionSession: session %s committed, saved=%d, failed=%d",
		sessionID, len(saved), len(failed))

	return &CommitResponse{
		SessionID: sessionID,
		Saved:     saved,
		Failed:    failed,
	}, nil
}

// Discard закрывает сессию, отбрасывая все несохранённые правки
func (uc *UseCase) Discard(sessionID string) error {
	if err := uc.registry.CloseSession(sessionID); err != nil {
		return ErrSessionNotFound
	}
	uc.logger.Info("DiscardExceptionSession: session %s discarded", sessionID)
	return nil
}

// selectEmployees сужает список до запрошенного подмножества с сохранением
// порядка. Id вне списка активных сотрудников отклоняется, дубликаты
// схлопываются.
func selectEmployees(employees []*domain.Employee, ids []int64) ([]*domain.Employee, error) {
	byID := make(map[int64]*domain.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}

	seen := make(map[int64]struct{}, len(ids))
	selected := make([]*domain.Employee, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		emp, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: employee %d is not an active employee of the barbershop", ErrInvalidInput, id)
		}
		selected = append(selected, emp)
	}
	return selected, nil
}

// seedSheet засеивает полнодневный лист сотрудника из его текущей
// доступности. Если на дату уже есть исключение, оно - единственный
// источник истины; иначе слот открыт, когда попадает в активное правило
// недельного расписания и не попадает в перерыв.
func seedSheet(emp *domain.Employee, exc *domain.AvailabilityException, date time.Time) *domain.EmployeeSheet {
	allSlots := domain.GenerateDaySlots()
	blocked := make(map[types.TimeString]struct{})

	for _, slot := range allSlots {
		if !domain.ResolveSlot(emp, exc, date, slot).IsAvailable() {
			blocked[slot] = struct{}{}
		}
	}

	return &domain.EmployeeSheet{
		EmployeeID: emp.ID,
		AllSlots:   allSlots,
		Blocked:    blocked,
	}
}

// sortedBlocked возвращает заблокированные слоты листа в порядке сетки
func sortedBlocked(sheet *domain.EmployeeSheet) []types.TimeString {
	blocked := make([]types.TimeString, 0, len(sheet.Blocked))
	for _, slot := range sheet.AllSlots {
		if sheet.IsBlocked(slot) {
			blocked = append(blocked, slot)
		}
	}
	return blocked
}
