package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// validateRequest валидирует входные данные запроса.
// Отклоняется до обращения к хранилищу
func validateRequest(req *Request, now time.Time, maxDurationMinutes int) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ZoneID <= 0 {
		return fmt.Errorf("%w: zoneID must be positive", ErrInvalidInput)
	}

	if req.SlotNumber < domain.MinSlotNumber {
		return fmt.Errorf("%w: slotNumber must be at least %d", ErrInvalidInput, domain.MinSlotNumber)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.DurationMinutes < domain.MinDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}

	if req.DurationMinutes > maxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must not exceed %d", ErrInvalidInput, maxDurationMinutes)
	}

	// Окно целиком в прошлом бронировать нельзя
	end := req.StartTime.Add(time.Duration(req.DurationMinutes) * time.Minute)
	if !end.After(now) {
		return fmt.Errorf("%w: reservation window is entirely in the past", ErrInvalidInput)
	}

	return nil
}
