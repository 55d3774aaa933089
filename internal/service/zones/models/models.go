package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе зоны
	ErrInvalidStatus = errors.New("invalid zone status")
)

// Request модели

// SetZoneStatusRequest запрос на изменение административного статуса зоны
type SetZoneStatusRequest struct {
	Status string     `json:"status"`
	Reason *string    `json:"reason,omitempty"`
	Until  *time.Time `json:"until,omitempty"`
}

// Response модели

// ZoneResponse ответ с данными зоны
type ZoneResponse struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	BuildingCode string     `json:"buildingCode"`
	Capacity     int        `json:"capacity"`
	Status       string     `json:"status"`
	StatusReason *string    `json:"statusReason,omitempty"`
	StatusUntil  *time.Time `json:"statusUntil,omitempty"`

	// Живая занятость на момент ответа (nil, если не запрашивалась)
	Occupancy *OccupancyResponse `json:"occupancy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ZoneListResponse ответ со списком зон
type ZoneListResponse struct {
	Zones []ZoneResponse `json:"zones"`
}

// OccupancyResponse агрегированная занятость зоны
type OccupancyResponse struct {
	ZoneID        int64   `json:"zoneId"`
	OccupiedCount int     `json:"occupiedCount"`
	Capacity      int     `json:"capacity"`
	Rate          float64 `json:"rate"`
	Alert         bool    `json:"alert"`
}

// Методы конвертации

// FromDomainZone конвертирует domain модель в DTO
func FromDomainZone(z *domain.Zone) *ZoneResponse {
	if z == nil {
		return nil
	}

	return &ZoneResponse{
		ID:           z.ID,
		Name:         z.Name,
		BuildingCode: z.BuildingCode,
		Capacity:     z.Capacity,
		Status:       string(z.Status),
		StatusReason: z.StatusReason,
		StatusUntil:  z.StatusUntil,
		CreatedAt:    z.CreatedAt,
		UpdatedAt:    z.UpdatedAt,
	}
}

// FromDomainOccupancy конвертирует агрегат занятости в DTO
func FromDomainOccupancy(o domain.Occupancy, alertThreshold float64) *OccupancyResponse {
	return &OccupancyResponse{
		ZoneID:        o.ZoneID,
		OccupiedCount: o.OccupiedCount,
		Capacity:      o.Capacity,
		Rate:          o.Rate(),
		Alert:         o.AlertAt(alertThreshold),
	}
}

// ToDomainZoneStatus конвертирует строку в domain.ZoneStatus с валидацией
func ToDomainZoneStatus(status string) (domain.ZoneStatus, error) {
	s := domain.ZoneStatus(status)
	if !domain.ValidZoneStatus(string(s)) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
