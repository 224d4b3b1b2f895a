package edit_exceptions

import (
	"fmt"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

func validateOpenRequest(req *OpenRequest) error {
	if req.BarbershopID <= 0 {
		return fmt.Errorf("%w: barbershop_id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	for _, id := range req.EmployeeIDs {
		if id <= 0 {
			return fmt.Errorf("%w: employee ids must be positive", ErrInvalidInput)
		}
	}
	return nil
}

func validateSlot(slot types.TimeString) error {
	if err := slot.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !domain.IsAligned(slot) {
		return fmt.Errorf("%w: %s", ErrUnalignedSlot, slot)
	}
	return nil
}
