package get_zone_reservations

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/reservations/models"
)

type ReservationService interface {
	GetZoneReservations(ctx context.Context, req *models.GetZoneReservationsRequest) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
