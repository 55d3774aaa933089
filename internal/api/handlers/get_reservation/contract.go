package get_reservation

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/reservations/models"
)

type ReservationService interface {
	GetByID(ctx context.Context, id int64, userID int64, isAdmin bool) (*models.ReservationResponse, error)
	GetProjection(ctx context.Context, id int64, userID int64, isAdmin bool) (*models.ProjectionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
