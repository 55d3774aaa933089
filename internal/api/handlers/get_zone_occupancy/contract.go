package get_zone_occupancy

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/zones/models"
)

type ZoneService interface {
	GetOccupancy(ctx context.Context, zoneID int64) (*models.OccupancyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
