package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// GetUserReservationsRequest запрос на получение бронирований пользователя
type GetUserReservationsRequest struct {
	UserID   int64   `json:"userId"`
	CallerID int64   `json:"-"`
	IsAdmin  bool    `json:"-"`
	Status   *string `json:"status,omitempty"`
}

// GetZoneReservationsRequest запрос на получение бронирований зоны (для администратора)
type GetZoneReservationsRequest struct {
	ZoneID          int64      `json:"zoneId"`
	From            *time.Time `json:"from,omitempty"`            // Начало периода (опционально)
	To              *time.Time `json:"to,omitempty"`              // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить закрытые сессии
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetZoneReservationsRequest) ToDomainFilter() (domain.ZoneReservationsFilter, error) {
	filter := domain.ZoneReservationsFilter{
		ZoneID:          r.ZoneID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainReservationStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// CancelReservationRequest запрос на отмену бронирования
type CancelReservationRequest struct {
	UserID  int64 `json:"userId"`
	IsAdmin bool  `json:"-"`
}

// EndSessionRequest запрос на досрочное завершение сессии
type EndSessionRequest struct {
	UserID  int64 `json:"userId"`
	IsAdmin bool  `json:"-"`
}

// Response модели

// ReservationResponse ответ с данными бронирования.
// Status содержит эффективный статус на момент ответа: сервер всегда
// проецирует время сам, клиентские часы источником истины не являются
type ReservationResponse struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	ZoneID          int64     `json:"zoneId"`
	SlotNumber      int       `json:"slotNumber"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	FineAmount      *string   `json:"fineAmount,omitempty"`
	ExitConfirmed   bool      `json:"exitConfirmed"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// ProjectionResponse серверная проекция состояния сессии
type ProjectionResponse struct {
	ID                   int64   `json:"id"`
	Status               string  `json:"status"`
	TimeRemainingSeconds int64   `json:"timeRemainingSeconds"`
	ProgressPercent      float64 `json:"progressPercent"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO.
// Статус вычисляется на момент now
func FromDomainReservation(r *domain.Reservation, now time.Time) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		ZoneID:          r.ZoneID,
		SlotNumber:      r.SlotNumber,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime(),
		DurationMinutes: r.DurationMinutes,
		Status:          string(r.EffectiveStatus(now)),
		ExitConfirmed:   r.ExitConfirmed,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}

	if r.FineAmount != nil {
		fine := r.FineAmount.String()
		resp.FineAmount = &fine
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation, now time.Time) *ReservationListResponse {
	if reservations == nil {
		return &ReservationListResponse{
			Reservations: []ReservationResponse{},
		}
	}

	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, len(reservations)),
	}

	for i, reservation := range reservations {
		if r := FromDomainReservation(reservation, now); r != nil {
			resp.Reservations[i] = *r
		}
	}

	return resp
}

// FromDomainProjection конвертирует серверную проекцию в DTO
func FromDomainProjection(id int64, p domain.Projection) *ProjectionResponse {
	return &ProjectionResponse{
		ID:                   id,
		Status:               string(p.Status),
		TimeRemainingSeconds: p.TimeRemainingSeconds,
		ProgressPercent:      p.ProgressPercent,
	}
}

// ToDomainReservationStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !domain.ValidStatus(string(s)) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
