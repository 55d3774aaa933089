package end_session

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/reservations/models"
)

type ReservationService interface {
	EndSession(ctx context.Context, id int64, req *models.EndSessionRequest) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
