package resolve_conflict

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	apptRepo "github.com/m04kA/BRB-ScheduleService/internal/infra/storage/appointment"
	"github.com/m04kA/BRB-ScheduleService/internal/integrations/catalogservice"
	"github.com/m04kA/BRB-ScheduleService/internal/service/sessionstore"
	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type placementUpdate struct {
	id         int64
	employeeID int64
	start, end types.TimeString
}

type timesUpdate struct {
	id         int64
	start, end types.TimeString
}

type fakeAppointmentRepo struct {
	byID map[int64]*domain.Appointment
	day  []*domain.Appointment

	placements []placementUpdate
	times      []timesUpdate
	statuses   map[int64]domain.AppointmentStatus

	placementErr error
	statusErr    error
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.byID[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

func (f *fakeAppointmentRepo) GetByDay(_ context.Context, _ domain.DayAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.day, nil
}

func (f *fakeAppointmentRepo) UpdatePlacement(_ context.Context, id int64, employeeID int64, _ time.Time, start, end types.TimeString) error {
	if f.placementErr != nil {
		return f.placementErr
	}
	f.placements = append(f.placements, placementUpdate{id: id, employeeID: employeeID, start: start, end: end})
	return nil
}

func (f *fakeAppointmentRepo) UpdateTimes(_ context.Context, id int64, start, end types.TimeString) error {
	f.times = append(f.times, timesUpdate{id: id, start: start, end: end})
	return nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	if f.statuses == nil {
		f.statuses = make(map[int64]domain.AppointmentStatus)
	}
	f.statuses[id] = status
	return nil
}

type fakeCatalog struct {
	service *catalogservice.Service
	err     error
}

func (f *fakeCatalog) GetServiceWithGracefulDegradation(_ context.Context, _ int64) (*catalogservice.Service, error) {
	return f.service, f.err
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeChangeFeed struct {
	published []int64
}

func (f *fakeChangeFeed) AppointmentsChanged(_ context.Context, barbershopID int64) error {
	f.published = append(f.published, barbershopID)
	return nil
}

// Исходный сценарий: запись 1 переносится на 14:30, длительность 30 минут,
// конфликт с записью 2 (14:00-15:00) у сотрудника 2.
func stageConflict(t *testing.T, registry *sessionstore.Store) string {
	t.Helper()
	id, err := registry.StageConflict(&domain.ConflictContext{
		AppointmentID: 1,
		BarbershopID:  42,
		Old:           domain.Placement{EmployeeID: 1, Date: monday, StartTime: "10:00"},
		New:           domain.Placement{EmployeeID: 2, Date: monday, StartTime: "14:30"},
		NewEndTime:    "15:00",

		BlockingAppointmentID: 2,
	})
	require.NoError(t, err)
	return id
}

func blockingAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:           2,
		BarbershopID: 42,
		EmployeeID:   2,
		Date:         monday,
		StartTime:    "14:00",
		EndTime:      "15:00",
		Status:       domain.StatusConfirmed,
		ServiceID:    200,
		ClientName:   "Анна",
	}
}

func newTestUseCase(repo *fakeAppointmentRepo, catalog *fakeCatalog, feed *fakeChangeFeed) (*UseCase, *sessionstore.Store) {
	registry := sessionstore.New()
	uc := NewUseCase(repo, catalog, registry, fakeTxManager{}, feed, nopLogger{})
	return uc, registry
}

func TestExecute_CancelConflicting(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{2: blockingAppointment()}}
	feed := &fakeChangeFeed{}
	uc, registry := newTestUseCase(repo, &fakeCatalog{}, feed)
	conflictID := stageConflict(t, registry)

	resp, err := uc.Execute(context.Background(), &Request{
		ConflictID: conflictID,
		Strategy:   StrategyCancelConflicting,
	})
	require.NoError(t, err)

	assert.True(t, resp.BlockingUpdated)
	assert.True(t, resp.IncomingUpdated)
	assert.Equal(t, domain.StatusCancelled, repo.statuses[2])

	// Исходный перенос применён
	require.Len(t, repo.placements, 1)
	assert.Equal(t, placementUpdate{id: 1, employeeID: 2, start: "14:30", end: "15:00"}, repo.placements[0])

	assert.Equal(t, []int64{42}, feed.published)
}

func TestExecute_CancelConflicting_PartialFailureReported(t *testing.T) {
	repo := &fakeAppointmentRepo{
		byID:         map[int64]*domain.Appointment{2: blockingAppointment()},
		placementErr: errors.New("db down"),
	}
	uc, registry := newTestUseCase(repo, &fakeCatalog{}, &fakeChangeFeed{})
	conflictID := stageConflict(t, registry)

	_, err := uc.Execute(context.Background(), &Request{
		ConflictID: conflictID,
		Strategy:   StrategyCancelConflicting,
	})
	require.ErrorIs(t, err, ErrPartialResolution)

	// Отмена мешающей записи применена и не откатывается
	assert.Equal(t, domain.StatusCancelled, repo.statuses[2])
}

func TestExecute_ReduceDuration_ShrinksIncoming(t *testing.T) {
	blocking := blockingAppointment()
	blocking.StartTime = "14:50"
	blocking.EndTime = "15:30"
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{2: blocking}}
	uc, registry := newTestUseCase(repo, &fakeCatalog{}, &fakeChangeFeed{})
	conflictID := stageConflict(t, registry)

	resp, err := uc.Execute(context.Background(), &Request{
		ConflictID: conflictID,
		Strategy:   StrategyReduceDuration,
	})
	require.NoError(t, err)

	assert.False(t, resp.BlockingUpdated)
	assert.True(t, resp.IncomingUpdated)
	assert.Equal(t, "14:30", resp.IncomingStart.String())
	assert.Equal(t, "14:50", resp.IncomingEnd.String())

	require.Len(t, repo.times, 1)
	assert.Equal(t, timesUpdate{id: 1, start: "14:30", end: "14:50"}, repo.times[0])

	// Сотрудник и дата записи не меняются, мешающая запись не тронута
	assert.Empty(t, repo.placements)
	assert.Empty(t, repo.statuses)
}

func TestExecute_ReduceDuration_RejectsNonPositive(t *testing.T) {
	// Мешающая запись начинается в 14:00, раньше предлагаемого начала 14:30:
	// сокращение дало бы отрицательную длительность
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{2: blockingAppointment()}}
	uc, registry := newTestUseCase(repo, &fakeCatalog{}, &fakeChangeFeed{})
	conflictID := stageConflict(t, registry)

	_, err := uc.Execute(context.Background(), &Request{
		ConflictID: conflictID,
		Strategy:   StrategyReduceDuration,
	})
	require.ErrorIs(t, err, ErrNonPositiveDuration)

	// Никаких мутаций
	assert.Empty(t, repo.placements)
	assert.Empty(t, repo.times)
	assert.Empty(t, repo.statuses)
}

func TestExecute_MoveConflicting(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{2: blockingAppointment()}}
	catalog := &fakeCatalog{service: &catalogservice.Service{DurationMinutes: 45}}
	feed := &fakeChangeFeed{}
	uc, registry := newTestUseCase(repo, catalog, feed)
	conflictID := stageConflict(t, registry)

	resp, err := uc.Execute(context.Background(), &Request{
		ConflictID: conflictID,
		Strategy:   StrategyMoveConflicting,
	})
	require.NoError(t, err)

	assert.True(t, resp.BlockingUpdated)
	assert.True(t, resp.IncomingUpdated)

	// Мешающая запись сдвинута вплотную за конец входящей: 15:00 + 45 минут
	require.Len(t, repo.times, 1)
	assert.Equal(t, timesUpdate{id: 2, start: "15:00", end: "15:45"}, repo.times[0])

	// Исходный перенос применён
	require.Len(t, repo.placements, 1)
	assert.Equal(t, placementUpdate{id: 1, employeeID: 2, start: "14:30", end: "15:00"}, repo.placements[0])
}

func TestExecute_MoveConflicting_DefaultsDuration(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{2: blockingAppointment()}}
	catalog := &fakeCatalog{err: catalogservice.ErrServiceDegraded}
	uc, registry := newTestUseCase(repo, catalog, &fakeChangeFeed{})
	conflictID := stageConflict(t, registry)

	resp, err := uc.Execute(context.Background(), &Request{
		ConflictID: conflictID,
		Strategy:   StrategyMoveConflicting,
	})
	require.NoError(t, err)

	assert.True(t, resp.DurationDefaulted)
	require.Len(t, repo.times, 1)
	assert.Equal(t, timesUpdate{id: 2, start: "15:00", end: "16:00"}, repo.times[0])
}

func TestExecute_MoveConflicting_RejectsCascade(t *testing.T) {
	third := &domain.Appointment{
		ID: 3, BarbershopID: 42, EmployeeID: 2, Date: monday,
		StartTime: "15:30", EndTime: "16:00", Status: domain.StatusConfirmed,
	}
	repo := &fakeAppointmentRepo{
		byID: map[int64]*domain.Appointment{2: blockingAppointment()},
		day:  []*domain.Appointment{blockingAppointment(), third},
	}
	catalog := &fakeCatalog{service: &catalogservice.Service{DurationMinutes: 45}}
	uc, registry := newTestUseCase(repo, catalog, &fakeChangeFeed{})
	conflictID := stageConflict(t, registry)

	// Сдвинутая мешающая запись 15:00-15:45 упирается в запись 3 (15:30-16:00)
	_, err := uc.Execute(context.Background(), &Request{
		ConflictID: conflictID,
		Strategy:   StrategyMoveConflicting,
	})
	require.ErrorIs(t, err, ErrCascadeConflict)

	// Всё отклонено целиком: никаких мутаций
	assert.Empty(t, repo.times)
	assert.Empty(t, repo.placements)

	// Конфликт извлечён: повторная попытка требует нового предложения
	_, err = registry.TakeConflict(conflictID)
	assert.Error(t, err)
}

func TestExecute_Dismiss(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{2: blockingAppointment()}}
	uc, registry := newTestUseCase(repo, &fakeCatalog{}, &fakeChangeFeed{})
	conflictID := stageConflict(t, registry)

	resp, err := uc.Execute(context.Background(), &Request{
		ConflictID: conflictID,
		Strategy:   StrategyDismiss,
	})
	require.NoError(t, err)
	assert.False(t, resp.BlockingUpdated)
	assert.False(t, resp.IncomingUpdated)

	// Никаких мутаций, конфликт отброшен
	assert.Empty(t, repo.placements)
	assert.Empty(t, repo.statuses)
	_, err = registry.TakeConflict(conflictID)
	assert.Error(t, err)
}

func TestExecute_UnknownStrategy(t *testing.T) {
	uc, registry := newTestUseCase(&fakeAppointmentRepo{}, &fakeCatalog{}, &fakeChangeFeed{})
	conflictID := stageConflict(t, registry)

	_, err := uc.Execute(context.Background(), &Request{
		ConflictID: conflictID,
		Strategy:   "merge",
	})
	require.ErrorIs(t, err, ErrUnknownStrategy)

	// Конфликт остаётся застейдженным: стратегию можно выбрать заново
	_, err = registry.TakeConflict(conflictID)
	assert.NoError(t, err)
}

func TestExecute_ConflictNotFound(t *testing.T) {
	uc, _ := newTestUseCase(&fakeAppointmentRepo{}, &fakeCatalog{}, &fakeChangeFeed{})

	_, err := uc.Execute(context.Background(), &Request{
		ConflictID: "missing",
		Strategy:   StrategyCancelConflicting,
	})
	assert.ErrorIs(t, err, ErrConflictNotFound)
}
