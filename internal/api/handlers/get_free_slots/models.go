package get_free_slots

import (
	"time"

	getFreeSlots "github.com/m04kA/SMC-ParkingService/internal/usecase/get_free_slots"
)

// FreeSlotsResponse HTTP response model
type FreeSlotsResponse struct {
	ZoneID          int64     `json:"zoneId"`
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"durationMinutes"`
	Capacity        int       `json:"capacity"`
	ZoneStatus      string    `json:"zoneStatus"`
	FreeSlots       []int     `json:"freeSlots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getFreeSlots.Response) *FreeSlotsResponse {
	return &FreeSlotsResponse{
		ZoneID:          resp.ZoneID,
		Start:           resp.Start,
		DurationMinutes: resp.DurationMinutes,
		Capacity:        resp.Capacity,
		ZoneStatus:      resp.ZoneStatus,
		FreeSlots:       resp.FreeSlots,
	}
}
