package resolve_schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	"github.com/m04kA/BRB-ScheduleService/internal/service/sessionstore"
	"github.com/m04kA/BRB-ScheduleService/pkg/ptr"
	"github.com/m04kA/BRB-ScheduleService/pkg/types"
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
	exceptions map[int64]*domain.AvailabilityException
}

func (f *fakeExceptionRepo) GetByEmployeesAndDate(_ context.Context, _ []int64, _ time.Time) (map[int64]*domain.AvailabilityException, error) {
	if f.exceptions == nil {
		return map[int64]*domain.AvailabilityException{}, nil
	}
	return f.exceptions, nil
}

func testEmployee() *domain.Employee {
	return &domain.Employee{
		ID:           1,
		BarbershopID: 42,
		Name:         "Иван",
		Active:       true,
		ScheduleRules: []domain.ScheduleRule{
			{Weekday: 1, StartTime: "09:00", EndTime: "18:00", Active: true},
		},
		Breaks: []domain.Break{
			{Weekday: ptr.Ptr(1), StartTime: "13:00", EndTime: "14:00", Active: true},
		},
	}
}

func verdictAt(t *testing.T, resp *Response, employeeID int64, slot types.TimeString) domain.SlotVerdict {
	t.Helper()
	for i, s := range resp.Slots {
		if s != slot {
			continue
		}
		for _, grid := range resp.Employees {
			if grid.EmployeeID == employeeID {
				return grid.Verdicts[i]
			}
		}
	}
	t.Fatalf("slot %s or employee %d not in grid", slot, employeeID)
	return ""
}

func TestExecute_GridFromSchedule(t *testing.T) {
	registry := sessionstore.New()
	uc := NewUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		&fakeExceptionRepo{},
		registry,
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{BarbershopID: 42, Date: monday})
	require.NoError(t, err)

	assert.False(t, resp.EditingSessionActive)

	// Сетка начинается с самого раннего правила и идёт до конца суток
	assert.Equal(t, "09:00", resp.Slots[0].String())
	assert.Equal(t, "23:50", resp.Slots[len(resp.Slots)-1].String())

	assert.Equal(t, domain.SlotAvailable, verdictAt(t, resp, 1, "09:00"))
	assert.Equal(t, domain.SlotBlockedBreak, verdictAt(t, resp, 1, "13:30"))
	assert.Equal(t, domain.SlotBlockedOutOfSchedule, verdictAt(t, resp, 1, "18:00"))
}

func TestExecute_ExceptionOverridesSchedule(t *testing.T) {
	registry := sessionstore.New()
	uc := NewUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		&fakeExceptionRepo{exceptions: map[int64]*domain.AvailabilityException{
			1: {EmployeeID: 1, Date: monday, Ranges: []domain.TimeRange{
				{StartTime: "13:00", EndTime: "15:00"},
			}},
		}},
		registry,
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{BarbershopID: 42, Date: monday})
	require.NoError(t, err)

	// Исключение перекрывает перерыв
	assert.Equal(t, domain.SlotAvailable, verdictAt(t, resp, 1, "13:30"))
	// И блокирует рабочее по расписанию время вне своих диапазонов
	assert.Equal(t, domain.SlotBlockedException, verdictAt(t, resp, 1, "10:00"))
}

func TestExecute_EditingSessionOverridesPersisted(t *testing.T) {
	registry := sessionstore.New()

	allSlots := domain.GenerateDaySlots()
	sheet := &domain.EmployeeSheet{
		EmployeeID: 1,
		AllSlots:   allSlots,
		Blocked:    map[types.TimeString]struct{}{"09:00": {}},
	}
	_, err := registry.OpenSession(&domain.ExceptionSession{
		BarbershopID: 42,
		Date:         monday,
		Sheets:       map[int64]*domain.EmployeeSheet{1: sheet},
	})
	require.NoError(t, err)

	uc := NewUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{testEmployee()}},
		&fakeExceptionRepo{},
		registry,
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{BarbershopID: 42, Date: monday})
	require.NoError(t, err)

	assert.True(t, resp.EditingSessionActive)

	// Заблокированный в сессии рабочий слот показывается заблокированным
	assert.Equal(t, domain.SlotBlockedException, verdictAt(t, resp, 1, "09:00"))

	// Слот перерыва не в blocked-наборе сессии - показывается доступным:
	// во время редактирования расписание и перерывы игнорируются
	assert.Equal(t, domain.SlotAvailable, verdictAt(t, resp, 1, "13:30"))
}

func TestExecute_DefaultGridWithoutRules(t *testing.T) {
	emp := testEmployee()
	emp.ScheduleRules = nil

	uc := NewUseCase(
		&fakeEmployeeRepo{employees: []*domain.Employee{emp}},
		&fakeExceptionRepo{},
		sessionstore.New(),
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{BarbershopID: 42, Date: monday})
	require.NoError(t, err)

	assert.Equal(t, "08:00", resp.Slots[0].String())
	assert.Equal(t, "19:50", resp.Slots[len(resp.Slots)-1].String())
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&fakeEmployeeRepo{}, &fakeExceptionRepo{}, sessionstore.New(), nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BarbershopID: 0, Date: monday})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BarbershopID: 42})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
