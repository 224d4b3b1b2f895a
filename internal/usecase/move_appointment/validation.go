package move_appointment

import (
	"fmt"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
)

// validateProposeRequest валидирует входные данные предложения переноса
func validateProposeRequest(req *ProposeRequest) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.NewEmployeeID <= 0 {
		return fmt.Errorf("%w: newEmployeeID must be positive", ErrInvalidInput)
	}

	if req.NewDate.IsZero() {
		return fmt.Errorf("%w: newDate is required", ErrInvalidInput)
	}

	if req.NewStartTime.IsZero() {
		return fmt.Errorf("%w: newStartTime is required", ErrInvalidInput)
	}

	if err := req.NewStartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid newStartTime format: %v", ErrInvalidInput, err)
	}

	// Запись встаёт на сетку агенды: начало кратно шагу слота
	if !domain.IsAligned(req.NewStartTime) {
		return fmt.Errorf("%w: %s", ErrUnalignedTime, req.NewStartTime)
	}

	return nil
}
