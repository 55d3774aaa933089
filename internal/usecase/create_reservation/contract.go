package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetClaimingInWindow(ctx context.Context, zoneID int64, window domain.Window) ([]*domain.Reservation, error)
}

// ZoneRepository интерфейс репозитория зон
type ZoneRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Zone, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
