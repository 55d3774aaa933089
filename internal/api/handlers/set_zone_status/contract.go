package set_zone_status

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/zones/models"
)

type ZoneService interface {
	SetStatus(ctx context.Context, zoneID int64, req *models.SetZoneStatusRequest) (*models.ZoneResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
