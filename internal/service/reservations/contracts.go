package reservations

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	GetByZoneWithFilter(ctx context.Context, filter domain.ZoneReservationsFilter) ([]*domain.Reservation, error)
	CloseSession(ctx context.Context, id int64, status domain.ReservationStatus, fine *decimal.Decimal, exitConfirmed bool) (*domain.Reservation, error)
	Cancel(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
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
