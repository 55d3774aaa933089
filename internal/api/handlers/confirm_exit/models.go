package confirm_exit

import (
	"time"

	confirmExit "github.com/m04kA/SMC-ParkingService/internal/usecase/confirm_exit"
)

// ExitResponse HTTP response model.
// AlreadyClosed = true означает, что исход был зафиксирован ранее
// и повторный вызов ничего не изменил
type ExitResponse struct {
	ID            int64     `json:"id"`
	Status        string    `json:"status"`
	FineAmount    *string   `json:"fineAmount,omitempty"`
	ExitConfirmed bool      `json:"exitConfirmed"`
	AlreadyClosed bool      `json:"alreadyClosed"`
	ClosedAt      time.Time `json:"closedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmExit.Response) *ExitResponse {
	out := &ExitResponse{
		ID:            resp.ID,
		Status:        resp.Status,
		ExitConfirmed: resp.ExitConfirmed,
		AlreadyClosed: resp.AlreadyClosed,
		ClosedAt:      resp.ClosedAt,
	}

	if resp.FineAmount != nil {
		fine := resp.FineAmount.String()
		out.FineAmount = &fine
	}

	return out
}
