package edit_exceptions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	"github.com/m04kA/BRB-ScheduleService/internal/service/sessionstore"
	"github.com/m04kA/BRB-ScheduleService/pkg/ptr"
)

var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeEmployeeRepo struct {
	employees []*domain.Employee
}

func (f *fakeEmployeeRepo) GetByBarbershop(_ context.Context, _ int64, _ bool) ([]*domain.Employee, error) {
	return f.employees, nil
}

type fakeExceptionRepo struct {
	mu       sync.Mutex
	existing map[int64]*domain.AvailabilityException
	upserted map[int64]*domain.AvailabilityException
	failFor  map[int64]error
}

func (f *fakeExceptionRepo) GetByEmployeesAndDate(_ context.Context, _ []int64, _ time.Time) (map[int64]*domain.AvailabilityException, error) {
	if f.existing == nil {
		return map[int64]*domain.AvailabilityException{}, nil
	}
	return f.existing, nil
}

func (f *fakeExceptionRepo) Upsert(_ context.Context, exc *domain.AvailabilityException) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failFor[exc.EmployeeID]; err != nil {
		return err
	}
	if f.upserted == nil {
		f.upserted = make(map[int64]*domain.AvailabilityException)
	}
	f.upserted[exc.EmployeeID] = exc
	return nil
}

type fakeChangeFeed struct {
	published []int64
}

func (f *fakeChangeFeed) AvailabilityChanged(_ context.Context, barbershopID int64) error {
	f.published = append(f.published, barbershopID)
	return nil
}

// Сотрудник работает по понедельникам 09:00-12:00 с перерывом 10:00-10:30
func testEmployee() *domain.Employee {
	return &domain.Employee{
		ID:           1,
		BarbershopID: 42,
		Name:         "Иван",
		Active:       true,
		ScheduleRules: []domain.ScheduleRule{
			{Weekday: 1, StartTime: "09:00", EndTime: "12:00", Active: true},
		},
		Breaks: []domain.Break{
			{Weekday: ptr.Ptr(1), StartTime: "10:00", EndTime: "10:30", Active: true},
		},
	}
}

func newTestUseCase(employees *fakeEmployeeRepo, exceptions *fakeExceptionRepo, feed *fakeChangeFeed) (*UseCase, *sessionstore.Store) {
	registry := sessionstore.New()
	uc := NewUseCase(employees, exceptions, registry, feed, nopLogger{})
	return uc, registry
}

func openTestSession(t *testing.T, uc *UseCase) *OpenResponse {
	t.Helper()
	resp, err := uc.Open(context.Background(), &OpenRequest{BarbershopID: 42, Date: monday})
	require.NoError(t, err)
	return resp
}

func blockedSet(t *testing.T, resp *OpenResponse, employeeID int64) map[string]struct{} {
	t.Helper()
	for _, sheet := range resp.Sheets {
		if sheet.EmployeeID != employeeID {
			continue
		}
		set := make(map[string]struct{}, len(sheet.BlockedSlots))
		for _, slot := range sheet.BlockedSlots {
			set[slot.String()] = struct{}{}
		}
		return set
	}
	t.Fatalf("sheet for employee %d not found", employeeID)
	return nil
}

func TestOpen_SeedsFromSchedule(t *testing.T) {
	uc, _ := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		&fakeExceptionRepo{},
		&fakeChangeFeed{},
	)

	resp := openTestSession(t, uc)
	require.Len(t, resp.Sheets, 1)

	blocked := blockedSet(t, resp, 1)

	// Рабочие слоты открыты
	assert.NotContains(t, blocked, "09:00")
	assert.NotContains(t, blocked, "11:50")

	// Перерыв заблокирован
	assert.Contains(t, blocked, "10:00")
	assert.Contains(t, blocked, "10:20")
	assert.NotContains(t, blocked, "10:30")

	// Вне расписания заблокировано, включая ночь
	assert.Contains(t, blocked, "00:00")
	assert.Contains(t, blocked, "08:50")
	assert.Contains(t, blocked, "12:00")
	assert.Contains(t, blocked, "23:50")
}

func TestOpen_SeedsFromExistingException(t *testing.T) {
	exceptions := &fakeExceptionRepo{
		existing: map[int64]*domain.AvailabilityException{
			1: {
				EmployeeID: 1,
				Date:       monday,
				Ranges:     []domain.TimeRange{{StartTime: "15:00", EndTime: "16:00"}},
			},
		},
	}
	uc, _ := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		exceptions,
		&fakeChangeFeed{},
	)

	resp := openTestSession(t, uc)
	blocked := blockedSet(t, resp, 1)

	// Исключение - единственный источник истины: расписание игнорируется
	assert.Contains(t, blocked, "09:00")
	assert.NotContains(t, blocked, "15:00")
	assert.NotContains(t, blocked, "15:50")
	assert.Contains(t, blocked, "16:00")
}

func TestOpen_NoRuleBlocksWholeDay(t *testing.T) {
	emp := testEmployee()
	emp.ScheduleRules = nil
	emp.Breaks = nil

	uc, _ := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{emp}},
		&fakeExceptionRepo{},
		&fakeChangeFeed{},
	)

	resp := openTestSession(t, uc)
	require.Len(t, resp.Sheets, 1)
	assert.Len(t, resp.Sheets[0].BlockedSlots, 144)
}

func TestOpen_EmployeeSubset(t *testing.T) {
	second := testEmployee()
	second.ID = 2
	second.Name = "Олег"

	uc, _ := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee(), second}},
		&fakeExceptionRepo{},
		&fakeChangeFeed{},
	)

	resp, err := uc.Open(context.Background(), &OpenRequest{
		BarbershopID: 42,
		EmployeeIDs:  []int64{2},
		Date:         monday,
	})
	require.NoError(t, err)

	require.Len(t, resp.Sheets, 1)
	assert.Equal(t, int64(2), resp.Sheets[0].EmployeeID)
}

func TestOpen_UnknownEmployeeRejected(t *testing.T) {
	uc, registry := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		&fakeExceptionRepo{},
		&fakeChangeFeed{},
	)

	_, err := uc.Open(context.Background(), &OpenRequest{
		BarbershopID: 42,
		EmployeeIDs:  []int64{1, 99},
		Date:         monday,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Сессия не регистрируется
	assert.False(t, registry.HasOpenSession(42))
}

func TestOpen_SecondSessionRejected(t *testing.T) {
	uc, _ := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		&fakeExceptionRepo{},
		&fakeChangeFeed{},
	)

	openTestSession(t, uc)

	_, err := uc.Open(context.Background(), &OpenRequest{BarbershopID: 42, Date: monday})
	assert.ErrorIs(t, err, ErrSessionAlreadyOpen)
}

func TestToggleSlot(t *testing.T) {
	uc, _ := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		&fakeExceptionRepo{},
		&fakeChangeFeed{},
	)
	session := openTestSession(t, uc)

	// Рабочий слот: первое переключение блокирует
	resp, err := uc.ToggleSlot(&ToggleRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "09:00"})
	require.NoError(t, err)
	assert.True(t, resp.Blocked)

	// Второе - разблокирует обратно
	resp, err = uc.ToggleSlot(&ToggleRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "09:00"})
	require.NoError(t, err)
	assert.False(t, resp.Blocked)
}

func TestToggleSlot_Errors(t *testing.T) {
	uc, _ := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		&fakeExceptionRepo{},
		&fakeChangeFeed{},
	)
	session := openTestSession(t, uc)

	_, err := uc.ToggleSlot(&ToggleRequest{SessionID: "missing", EmployeeID: 1, Slot: "09:00"})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = uc.ToggleSlot(&ToggleRequest{SessionID: session.SessionID, EmployeeID: 99, Slot: "09:00"})
	assert.ErrorIs(t, err, ErrEmployeeNotInSession)

	_, err = uc.ToggleSlot(&ToggleRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "09:05"})
	assert.ErrorIs(t, err, ErrUnalignedSlot)
}

func TestDrag_PolarityFromFirstSlot(t *testing.T) {
	uc, _ := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		&fakeExceptionRepo{},
		&fakeChangeFeed{},
	)
	session := openTestSession(t, uc)

	// Жест начат на свободном слоте - полярность блокирующая
	resp, err := uc.BeginDrag(&DragRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.PolarityBlocking), resp.Polarity)
	assert.True(t, resp.Blocked)

	// Проход по уже заблокированному слоту (перерыв) полярность не меняет
	resp, err = uc.DragEnter(&DragRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.PolarityBlocking), resp.Polarity)
	assert.True(t, resp.Blocked)

	resp, err = uc.DragEnter(&DragRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "09:10"})
	require.NoError(t, err)
	assert.True(t, resp.Blocked)

	require.NoError(t, uc.EndDrag(session.SessionID))

	// Новый жест на заблокированном слоте - полярность разблокирующая
	resp, err = uc.BeginDrag(&DragRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.PolarityUnblocking), resp.Polarity)
	assert.False(t, resp.Blocked)
}

func TestDragEnter_RequiresActiveGesture(t *testing.T) {
	uc, _ := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		&fakeExceptionRepo{},
		&fakeChangeFeed{},
	)
	session := openTestSession(t, uc)

	_, err := uc.DragEnter(&DragRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "09:10"})
	assert.ErrorIs(t, err, ErrNoActiveDrag)

	// После EndDrag жест тоже недоступен
	_, err = uc.BeginDrag(&DragRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "09:00"})
	require.NoError(t, err)
	require.NoError(t, uc.EndDrag(session.SessionID))

	_, err = uc.DragEnter(&DragRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "09:10"})
	assert.ErrorIs(t, err, ErrNoActiveDrag)
}

func TestDragEnter_DoesNotCrossEmployeeRows(t *testing.T) {
	second := testEmployee()
	second.ID = 2
	second.Name = "Олег"

	uc, _ := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee(), second}},
		&fakeExceptionRepo{},
		&fakeChangeFeed{},
	)
	session := openTestSession(t, uc)

	_, err := uc.BeginDrag(&DragRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "09:00"})
	require.NoError(t, err)

	_, err = uc.DragEnter(&DragRequest{SessionID: session.SessionID, EmployeeID: 2, Slot: "09:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestToggleSlot_ConcurrentWithGridReads(t *testing.T) {
	uc, registry := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		&fakeExceptionRepo{},
		&fakeChangeFeed{},
	)
	open := openTestSession(t, uc)

	session, err := registry.Session(open.SessionID)
	require.NoError(t, err)

	// UI опрашивает агенду, пока оператор кликает по слотам: снимки
	// blocked-набора читаются параллельно с переключениями
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, err := uc.ToggleSlot(&ToggleRequest{SessionID: open.SessionID, EmployeeID: 1, Slot: "09:00"})
				assert.NoError(t, err)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, ok := session.BlockedSnapshot(1)
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}

func TestCommit_PersistsCollapsedRanges(t *testing.T) {
	exceptions := &fakeExceptionRepo{}
	feed := &fakeChangeFeed{}
	uc, registry := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		exceptions,
		feed,
	)
	session := openTestSession(t, uc)

	// Дополнительно блокируем 11:00, освобождая слот перерыва 10:00
	_, err := uc.ToggleSlot(&ToggleRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "11:00"})
	require.NoError(t, err)
	_, err = uc.ToggleSlot(&ToggleRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "10:00"})
	require.NoError(t, err)

	resp, err := uc.Commit(context.Background(), session.SessionID)
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, resp.Saved)
	assert.Empty(t, resp.Failed)

	exc := exceptions.upserted[1]
	require.NotNil(t, exc)
	assert.True(t, domain.SameDay(monday, exc.Date))

	// 09:00-10:10 (перерыв начинается с 10:10 после освобождения 10:00),
	// 10:30-11:00, 11:10-12:00
	assert.Equal(t, []domain.TimeRange{
		{StartTime: "09:00", EndTime: "10:10"},
		{StartTime: "10:30", EndTime: "11:00"},
		{StartTime: "11:10", EndTime: "12:00"},
	}, exc.Ranges)

	assert.Equal(t, []int64{42}, feed.published)

	// Сессия закрыта
	assert.False(t, registry.HasOpenSession(42))
	_, err = uc.Commit(context.Background(), session.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCommit_PartialFailureIsIndependent(t *testing.T) {
	second := testEmployee()
	second.ID = 2

	exceptions := &fakeExceptionRepo{
		failFor: map[int64]error{2: errors.New("db down")},
	}
	feed := &fakeChangeFeed{}
	uc, registry := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee(), second}},
		exceptions,
		feed,
	)
	session := openTestSession(t, uc)

	resp, err := uc.Commit(context.Background(), session.SessionID)
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, resp.Saved)
	assert.Equal(t, []int64{2}, resp.Failed)

	// Успешный сотрудник сохранён, изменения опубликованы
	assert.NotNil(t, exceptions.upserted[1])
	assert.Equal(t, []int64{42}, feed.published)

	// Сессия закрыта независимо от исхода
	assert.False(t, registry.HasOpenSession(42))
}

func TestDiscard(t *testing.T) {
	exceptions := &fakeExceptionRepo{}
	feed := &fakeChangeFeed{}
	uc, registry := newTestUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		exceptions,
		feed,
	)
	session := openTestSession(t, uc)

	_, err := uc.ToggleSlot(&ToggleRequest{SessionID: session.SessionID, EmployeeID: 1, Slot: "09:00"})
	require.NoError(t, err)

	require.NoError(t, uc.Discard(session.SessionID))

	// Ничего не персистится и не публикуется
	assert.Empty(t, exceptions.upserted)
	assert.Empty(t, feed.published)
	assert.False(t, registry.HasOpenSession(42))

	assert.ErrorIs(t, uc.Discard(session.SessionID), ErrSessionNotFound)
}
