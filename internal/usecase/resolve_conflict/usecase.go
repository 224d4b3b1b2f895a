package resolve_conflict

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	apptRepo "github.com/m04kA/BRB-ScheduleService/internal/infra/storage/appointment"
)

// UseCase use case разрешения конфликта переноса записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogClient   CatalogClient
	registry        ConflictRegistry
	txManager       TxManager
	changeFeed      ChangeFeed
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogClient CatalogClient,
	registry ConflictRegistry,
	txManager TxManager,
	changeFeed ChangeFeed,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogClient:   catalogClient,
		registry:        registry,
		txManager:       txManager,
		changeFeed:      changeFeed,
		logger:          logger,
	}
}

// Execute применяет выбранную оператором стратегию к застейдженному
// конфликту. Контекст конфликта забирается из реестра до каких-либо
// проверок и не возвращается обратно: при отказе или ошибке оператор
// начинает перенос заново.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ResolveConflict: conflict=%s, strategy=%s", req.ConflictID, req.Strategy)

	// 1. Валидация стратегии до изъятия конфликта из реестра
	if !req.Strategy.Valid() {
		uc.logger.Warn("ResolveConflict: unknown strategy %q", req.Strategy)
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, req.Strategy)
	}

	// 2. Отказ от разрешения: конфликт отбрасывается без мутаций
	if req.Strategy == StrategyDismiss {
		if err := uc.registry.DropConflict(req.ConflictID); err != nil {
			return nil, ErrConflictNotFound
		}
		uc.logger.Info("ResolveConflict: conflict %s dismissed", req.ConflictID)
		return &Response{ConflictID: req.ConflictID, Strategy: req.Strategy}, nil
	}

	// 3. Забираем конфликт из реестра. Очищается независимо от исхода
	conflict, err := uc.registry.TakeConflict(req.ConflictID)
	if err != nil {
		uc.logger.Warn("ResolveConflict: conflict %s not found", req.ConflictID)
		return nil, ErrConflictNotFound
	}

	// 4. Перечитываем мешающую запись: с момента стейджинга она могла
	// измениться или быть отменена
	blocking, err := uc.appointmentRepo.GetByID(ctx, conflict.BlockingAppointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("ResolveConflict: blocking appointment id=%d not found", conflict.BlockingAppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ResolveConflict: failed to get blocking appointment id=%d: %v", conflict.BlockingAppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get blocking appointment: %v", ErrInternal, err)
	}

	var resp *Response
	switch req.Strategy {
	case StrategyCancelConflicting:
		resp, err = uc.cancelConflicting(ctx, conflict, blocking)
	case StrategyReduceDuration:
		resp, err = uc.reduceDuration(ctx, conflict, blocking)
	case StrategyMoveConflicting:
		resp, err = uc.moveConflicting(ctx, conflict, blocking)
	}
	if err != nil {
		return nil, err
	}

	resp.ConflictID = req.ConflictID
	resp.Strategy = req.Strategy

	// 5. Уведомляем подписчиков; ошибка публикации не откатывает мутации
	if feedErr := uc.changeFeed.AppointmentsChanged(ctx, conflict.BarbershopID); feedErr != nil {
		uc.logger.Warn("ResolveConflict: changefeed publish failed: %v", feedErr)
	}

	return resp, nil
}

// cancelConflicting отменяет мешающую запись и применяет исходный перенос.
// Мутации независимы: отмена не откатывается, если перенос не удался.
func (uc *UseCase) cancelConflicting(ctx context.Context, conflict *domain.ConflictContext, blocking *domain.Appointment) (*Response, error) {
	if err := uc.appointmentRepo.UpdateStatus(ctx, blocking.ID, domain.StatusCancelled); err != nil {
		uc.logger.Error("ResolveConflict: failed to cancel appointment id=%d: %v", blocking.ID, err)
		return nil, fmt.Errorf("%w: failed to cancel blocking appointment: %v", ErrInternal, err)
	}

	uc.logger.Info("ResolveConflict: appointment id=%d cancelled", blocking.ID)

	if err := uc.applyIncomingMove(ctx, conflict); err != nil {
		// Отмена уже применена, перенос - нет: сообщаем о частичном результате
		uc.logger.Error("ResolveConflict: blocking cancelled but move of appointment id=%d failed: %v",
			conflict.AppointmentID, err)
		return nil, fmt.Errorf("%w: blocking appointment cancelled, move failed: %v", ErrPartialResolution, err)
	}

	return &Response{
		BlockingUpdated: true,
		IncomingUpdated: true,
		IncomingStart:   conflict.New.StartTime,
		IncomingEnd:     conflict.NewEndTime,
	}, nil
}

// reduceDuration сокращает входящую запись так, чтобы её конец совпал с
// началом мешающей. Размещение (сотрудник, дата) берётся из предложенного
// переноса, мешающая запись не трогается.
func (uc *UseCase) reduceDuration(ctx context.Context, conflict *domain.ConflictContext, blocking *domain.Appointment) (*Response, error) {
	reducedMinutes := blocking.StartTime.Minutes() - conflict.New.StartTime.Minutes()
	if reducedMinutes <= 0 {
		uc.logger.Warn("ResolveConflict: reduce gives %d min for appointment id=%d, rejecting",
			reducedMinutes, conflict.AppointmentID)
		return nil, fmt.Errorf("%w: %d minutes", ErrNonPositiveDuration, reducedMinutes)
	}

	// Смещается только время: сотрудник и дата записи не меняются,
	// подтверждение переноса по этому пути не требуется.
	err := uc.appointmentRepo.UpdateTimes(ctx, conflict.AppointmentID, conflict.New.StartTime, blocking.StartTime)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ResolveConflict: failed to reduce appointment id=%d: %v", conflict.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to reduce appointment: %v", ErrInternal, err)
	}

	uc.logger.Info("ResolveConflict: appointment id=%d reduced to %s-%s (%d min)",
		conflict.AppointmentID, conflict.New.StartTime, blocking.StartTime, reducedMinutes)

	return &Response{
		IncomingUpdated: true,
		IncomingStart:   conflict.New.StartTime,
		IncomingEnd:     blocking.StartTime,
	}, nil
}

// moveConflicting сдвигает мешающую запись вплотную за конец входящей.
// Если сдвиг создаёт новый конфликт, стратегия отклоняется целиком:
// каскадное разрешение не поддерживается.
func (uc *UseCase) moveConflicting(ctx context.Context, conflict *domain.ConflictContext, blocking *domain.Appointment) (*Response, error) {
	durationMinutes, durationDefaulted := uc.resolveServiceDuration(ctx, blocking.ServiceID)

	movedStart := conflict.NewEndTime
	movedEnd, err := movedStart.AddMinutes(durationMinutes)
	if err != nil {
		uc.logger.Warn("ResolveConflict: moved end time out of day range: %v", err)
		return nil, fmt.Errorf("%w: moved end time out of day range", ErrCascadeConflict)
	}

	// Проверка каскада и сдвиг выполняются в одной сериализуемой
	// транзакции: чтение дня берёт блокировку строк, чтобы между
	// проверкой и записью не вклинился другой перенос
	employeeID := conflict.New.EmployeeID
	err = uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		dayAppointments, err := uc.appointmentRepo.GetByDay(ctx, domain.DayAppointmentsFilter{
			BarbershopID: conflict.BarbershopID,
			EmployeeID:   &employeeID,
			Date:         conflict.New.Date,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to get day appointments: %v", ErrInternal, err)
		}

		// Саму мешающую и входящую исключаем: их итоговые слоты уже известны
		others := make([]*domain.Appointment, 0, len(dayAppointments))
		for _, appt := range dayAppointments {
			if appt.ID == blocking.ID || appt.ID == conflict.AppointmentID {
				continue
			}
			others = append(others, appt)
		}

		if cascade := domain.FindConflict(others, employeeID, conflict.New.Date, movedStart, movedEnd, nil); cascade != nil {
			return fmt.Errorf("%w: collides with appointment id=%d", ErrCascadeConflict, cascade.ID)
		}

		return uc.appointmentRepo.UpdateTimes(ctx, blocking.ID, movedStart, movedEnd)
	})
	if err != nil {
		if errors.Is(err, ErrCascadeConflict) {
			uc.logger.Warn("ResolveConflict: moving appointment id=%d to %s-%s rejected: %v",
				blocking.ID, movedStart, movedEnd, err)
			return nil, err
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("ResolveConflict: %v", err)
			return nil, err
		}
		uc.logger.Error("ResolveConflict: failed to move appointment id=%d: %v", blocking.ID, err)
		return nil, fmt.Errorf("%w: failed to move blocking appointment: %v", ErrInternal, err)
	}

	uc.logger.Info("ResolveConflict: appointment id=%d moved to %s-%s", blocking.ID, movedStart, movedEnd)

	if err := uc.applyIncomingMove(ctx, conflict); err != nil {
		uc.logger.Error("ResolveConflict: blocking moved but move of appointment id=%d failed: %v",
			conflict.AppointmentID, err)
		return nil, fmt.Errorf("%w: blocking appointment moved, move failed: %v", ErrPartialResolution, err)
	}

	return &Response{
		BlockingUpdated:   true,
		IncomingUpdated:   true,
		IncomingStart:     conflict.New.StartTime,
		IncomingEnd:       conflict.NewEndTime,
		DurationDefaulted: durationDefaulted,
	}, nil
}

// applyIncomingMove применяет исходный перенос из контекста конфликта
func (uc *UseCase) applyIncomingMove(ctx context.Context, conflict *domain.ConflictContext) error {
	return uc.appointmentRepo.UpdatePlacement(
		ctx,
		conflict.AppointmentID,
		conflict.New.EmployeeID,
		conflict.New.Date,
		conflict.New.StartTime,
		conflict.NewEndTime,
	)
}

// resolveServiceDuration получает длительность услуги из каталога
// При любой ошибке каталога используется длительность по умолчанию
func (uc *UseCase) resolveServiceDuration(ctx context.Context, serviceID int64) (int, bool) {
	service, err := uc.catalogClient.GetServiceWithGracefulDegradation(ctx, serviceID)
	if err != nil {
		uc.logger.Warn("ResolveConflict: service id=%d lookup failed, using default duration %d min: %v",
			serviceID, domain.DefaultServiceDurationMinutes, err)
		return domain.DefaultServiceDurationMinutes, true
	}

	if service.DurationMinutes <= 0 {
		uc.logger.Warn("ResolveConflict: service id=%d has non-positive duration, using default", serviceID)
		return domain.DefaultServiceDurationMinutes, true
	}

	return service.DurationMinutes, false
}
