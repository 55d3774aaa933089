package zones

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// ZoneRepository интерфейс репозитория зон парковки
type ZoneRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Zone, error)
	List(ctx context.Context) ([]*domain.Zone, error)
	SetStatus(ctx context.Context, id int64, status domain.ZoneStatus, reason *string, until *time.Time) (*domain.Zone, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	CountActiveAt(ctx context.Context, zoneID int64, now time.Time) (int, error)
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
