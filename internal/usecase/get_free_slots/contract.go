package get_free_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	// GetClaimingInWindow получает бронирования зоны, удерживающие слот
	// и пересекающиеся с указанным окном
	GetClaimingInWindow(ctx context.Context, zoneID int64, window domain.Window) ([]*domain.Reservation, error)
}

// ZoneRepository интерфейс репозитория зон
type ZoneRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Zone, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
