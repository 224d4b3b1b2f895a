package move_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	apptRepo "github.com/m04kA/BRB-ScheduleService/internal/infra/storage/appointment"
	"github.com/m04kA/BRB-ScheduleService/internal/service/sessionstore"
)

// UseCase use case переноса записи (drag-to-reschedule)
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogClient   CatalogClient
	registry        StageRegistry
	changeFeed      ChangeFeed
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogClient CatalogClient,
	registry StageRegistry,
	changeFeed ChangeFeed,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogClient:   catalogClient,
		registry:        registry,
		changeFeed:      changeFeed,
		logger:          logger,
	}
}

// Propose обрабатывает завершение drag-жеста: вычисляет новое время конца
// из длительности услуги, проверяет конфликты и стейджит либо подтверждение
// переноса, либо контекст конфликта. Ничего не персистит.
func (uc *UseCase) Propose(ctx context.Context, req *ProposeRequest) (*ProposeResponse, error) {
	uc.logger.Info("ProposeMove: appointment=%d, employee=%d, date=%s, time=%s",
		req.AppointmentID, req.NewEmployeeID, req.NewDate.Format(domain.DateFormat), req.NewStartTime)

	// 1. Валидация входных данных
	if err := validateProposeRequest(req); err != nil {
		uc.logger.Warn("ProposeMove: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем переносимую запись
	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("ProposeMove: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ProposeMove: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if !appt.IsActive() {
		uc.logger.Warn("ProposeMove: appointment id=%d has status %s", appt.ID, appt.Status)
		return nil, ErrInactiveAppointment
	}

	// 3. Переносы запрещены, пока открыта сессия редактирования исключений
	if uc.registry.HasOpenSession(appt.BarbershopID) {
		uc.logger.Warn("ProposeMove: exception editing active for barbershop=%d", appt.BarbershopID)
		return nil, ErrExceptionModeActive
	}

	// 4. No-op, если размещение не изменилось
	newPlacement := domain.Placement{
		EmployeeID: req.NewEmployeeID,
		Date:       domain.DateOnly(req.NewDate),
		StartTime:  req.NewStartTime,
	}
	oldPlacement := appt.CurrentPlacement()

	if oldPlacement.SamePlacement(newPlacement) {
		uc.logger.Info("ProposeMove: appointment id=%d placement unchanged", appt.ID)
		return &ProposeResponse{
			Outcome: OutcomeNoop,
			Old:     oldPlacement,
			New:     newPlacement,
		}, nil
	}

	// 5. Вычисляем новое время конца из длительности услуги
	durationMinutes, durationDefaulted := uc.resolveServiceDuration(ctx, appt.ServiceID)

	newEndTime, err := req.NewStartTime.AddMinutes(durationMinutes)
	if err != nil {
		uc.logger.Warn("ProposeMove: new end time out of day range: %v", err)
		return nil, fmt.Errorf("%w: end time out of day range: %v", ErrInvalidInput, err)
	}

	// 6. Проверяем конфликты с записями нового сотрудника на новую дату,
	// исключая собственный прежний слот записи
	dayAppointments, err := uc.appointmentRepo.GetByDay(ctx, domain.DayAppointmentsFilter{
		BarbershopID: appt.BarbershopID,
		EmployeeID:   &req.NewEmployeeID,
		Date:         req.NewDate,
	})
	if err != nil {
		uc.logger.Error("ProposeMove: failed to get day appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get day appointments: %v", ErrInternal, err)
	}

	blocking := domain.FindConflict(dayAppointments, req.NewEmployeeID, req.NewDate, req.NewStartTime, newEndTime, &appt.ID)

	// 7. Конфликт: стейджим контекст конфликта вместо подтверждения
	if blocking != nil {
		conflict := &domain.ConflictContext{
			AppointmentID:         appt.ID,
			BarbershopID:          appt.BarbershopID,
			Old:                   oldPlacement,
			New:                   newPlacement,
			NewEndTime:            newEndTime,
			BlockingAppointmentID: blocking.ID,
			DurationDefaulted:     durationDefaulted,
		}

		conflictID, err := uc.registry.StageConflict(conflict)
		if err != nil {
			if errors.Is(err, sessionstore.ErrExceptionModeActive) {
				return nil, ErrExceptionModeActive
			}
			uc.logger.Error("ProposeMove: failed to stage conflict: %v", err)
			return nil, fmt.Errorf("%w: failed to stage conflict: %v", ErrInternal, err)
		}

		uc.logger.Info("ProposeMove: conflict with appointment id=%d staged as %s", blocking.ID, conflictID)

		return &ProposeResponse{
			Outcome:    OutcomeConflict,
			ConflictID: conflictID,
			Blocking: &BlockingAppointment{
				ID:         blocking.ID,
				ClientName: blocking.ClientName,
				StartTime:  blocking.StartTime,
				EndTime:    blocking.EndTime,
				Status:     string(blocking.Status),
			},
			Old:               oldPlacement,
			New:               newPlacement,
			NewEndTime:        newEndTime,
			DurationDefaulted: durationDefaulted,
		}, nil
	}

	// 8. Конфликта нет: стейджим перенос до явного подтверждения оператора
	move := &domain.PendingMove{
		AppointmentID:     appt.ID,
		BarbershopID:      appt.BarbershopID,
		Old:               oldPlacement,
		New:               newPlacement,
		NewEndTime:        newEndTime,
		DurationDefaulted: durationDefaulted,
	}

	moveID, err := uc.registry.StageMove(move)
	if err != nil {
		if errors.Is(err, sessionstore.ErrExceptionModeActive) {
			return nil, ErrExceptionModeActive
		}
		uc.logger.Error("ProposeMove: failed to stage move: %v", err)
		return nil, fmt.Errorf("%w: failed to stage move: %v", ErrInternal, err)
	}

	uc.logger.Info("ProposeMove: staged move %s for appointment id=%d", moveID, appt.ID)

	return &ProposeResponse{
		Outcome:           OutcomeStaged,
		MoveID:            moveID,
		Old:               oldPlacement,
		New:               newPlacement,
		NewEndTime:        newEndTime,
		DurationDefaulted: durationDefaulted,
	}, nil
}

// Confirm применяет застейдженный перенос: сотрудник, дата, начало и конец
// записываются одним multi-field обновлением. Застейдженное состояние
// очищается независимо от исхода - при ошибке оператор начинает заново.
func (uc *UseCase) Confirm(ctx context.Context, moveID string) (*ConfirmResponse, error) {
	move, err := uc.registry.TakeMove(moveID)
	if err != nil {
		uc.logger.Warn("ConfirmMove: move %s not found", moveID)
		return nil, ErrMoveNotFound
	}

	uc.logger.Info("ConfirmMove: applying move %s for appointment id=%d", moveID, move.AppointmentID)

	err = uc.appointmentRepo.UpdatePlacement(
		ctx,
		move.AppointmentID,
		move.New.EmployeeID,
		move.New.Date,
		move.New.StartTime,
		move.NewEndTime,
	)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ConfirmMove: failed to update appointment id=%d: %v", move.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
	}

	// Уведомляем подписчиков; ошибка публикации не откатывает перенос
	if err := uc.changeFeed.AppointmentsChanged(ctx, move.BarbershopID); err != nil {
		uc.logger.Warn("ConfirmMove: changefeed publish failed: %v", err)
	}

	uc.logger.Info("ConfirmMove: appointment id=%d moved to employee=%d %s %s-%s",
		move.AppointmentID, move.New.EmployeeID, move.New.Date.Format(domain.DateFormat),
		move.New.StartTime, move.NewEndTime)

	return &ConfirmResponse{
		AppointmentID: move.AppointmentID,
		EmployeeID:    move.New.EmployeeID,
		Date:          move.New.Date,
		StartTime:     move.New.StartTime,
		EndTime:       move.NewEndTime,
	}, nil
}

// Cancel отбрасывает застейдженный перенос без побочных эффектов
func (uc *UseCase) Cancel(moveID string) error {
	if err := uc.registry.DropMove(moveID); err != nil {
		return ErrMoveNotFound
	}
	uc.logger.Info("CancelMove: move %s dismissed", moveID)
	return nil
}

// resolveServiceDuration получает длительность услуги из каталога
// При любой ошибке каталога используется длительность по умолчанию,
// что помечается флагом в ответе и предупреждением в логе
func (uc *UseCase) resolveServiceDuration(ctx context.Context, serviceID int64) (int, bool) {
	service, err := uc.catalogClient.GetServiceWithGracefulDegradation(ctx, serviceID)
	if err != nil {
		uc.logger.Warn("ProposeMove: service id=%d lookup failed, using default duration %d min: %v",
			serviceID, domain.DefaultServiceDurationMinutes, err)
		return domain.DefaultServiceDurationMinutes, true
	}

	if service.DurationMinutes <= 0 {
		uc.logger.Warn("ProposeMove: service id=%d has non-positive duration, using default", serviceID)
		return domain.DefaultServiceDurationMinutes, true
	}

	return service.DurationMinutes, false
}
