package get_user_reservations

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/reservations/models"
)

type ReservationService interface {
	GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
