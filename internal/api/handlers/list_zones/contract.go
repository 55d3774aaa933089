package list_zones

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/zones/models"
)

type ZoneService interface {
	List(ctx context.Context) (*models.ZoneListResponse, error)
	GetByID(ctx context.Context, id int64) (*models.ZoneResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
