package get_free_slots

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxDurationMinutes int) error {
	if req.ZoneID <= 0 {
		return fmt.Errorf("%w: zoneID must be positive", ErrInvalidInput)
	}

	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}

	if req.DurationMinutes > maxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must not exceed %d", ErrInvalidInput, maxDurationMinutes)
	}

	return nil
}
