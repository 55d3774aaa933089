package create_reservation

import (
	"time"

	createReservation "github.com/m04kA/SMC-ParkingService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ZoneID          int64     `json:"zoneId"`
	SlotNumber      int       `json:"slotNumber"`
	StartTime       time.Time `json:"startTime"` // RFC3339
	DurationMinutes int       `json:"durationMinutes"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	ZoneID          int64     `json:"zoneId"`
	SlotNumber      int       `json:"slotNumber"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ConflictResponse ответ 409: слот занят, в подсказке - актуальная доступность
type ConflictResponse struct {
	Error     string `json:"error"`
	FreeSlots []int  `json:"freeSlots,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) *createReservation.Request {
	return &createReservation.Request{
		UserID:          userID,
		ZoneID:          r.ZoneID,
		SlotNumber:      r.SlotNumber,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		ZoneID:          resp.ZoneID,
		SlotNumber:      resp.SlotNumber,
		StartTime:       resp.StartTime,
		EndTime:         resp.EndTime,
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		CreatedAt:       resp.CreatedAt,
		UpdatedAt:       resp.UpdatedAt,
	}
}
