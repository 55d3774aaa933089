package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus represents the persisted status of a reservation
type ReservationStatus string

const (
	StatusUpcoming  ReservationStatus = "upcoming"
	StatusActive    ReservationStatus = "active"
	StatusCompleted ReservationStatus = "completed"
	StatusExpired   ReservationStatus = "expired"
	StatusCancelled ReservationStatus = "cancelled"
)

// Reservation represents a time-boxed claim on a numbered parking slot
type Reservation struct {
	ID              int64
	UserID          int64
	ZoneID          int64
	SlotNumber      int
	StartTime       time.Time
	DurationMinutes int
	Status          ReservationStatus
	FineAmount      *decimal.Decimal
	ExitConfirmed   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Window returns the [start, start+duration) interval claimed by the reservation
func (r *Reservation) Window() Window {
	return NewWindow(r.StartTime, r.DurationMinutes)
}

// EndTime returns the exclusive end of the reservation window
func (r *Reservation) EndTime() time.Time {
	return r.Window().End()
}

// ClaimsSlot returns true if the reservation still holds its slot.
// Legacy rows with an empty status are treated as upcoming.
func (r *Reservation) ClaimsSlot() bool {
	switch r.Status {
	case StatusUpcoming, StatusActive, "":
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the reservation reached a final status.
// Terminal statuses are monotonic: no further transition may change them.
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusExpired || r.Status == StatusCancelled
}

// CanBeCancelled returns true if the reservation has not started yet
func (r *Reservation) CanBeCancelled(now time.Time) bool {
	return r.ClaimsSlot() && now.Before(r.StartTime)
}

// EffectiveStatus computes the status as of now. The persisted value wins for
// terminal states; for non-terminal rows the wall clock drives the
// upcoming -> active -> expired progression. This is the single precedence rule
// for the "store value vs. derived value" question: derived time-based phases
// are a read-time projection, the stored terminal status is the source of truth.
func (r *Reservation) EffectiveStatus(now time.Time) ReservationStatus {
	if r.IsTerminal() {
		return r.Status
	}

	w := r.Window()
	switch {
	case now.Before(w.Start):
		return StatusUpcoming
	case now.Before(w.End()):
		return StatusActive
	default:
		return StatusExpired
	}
}

// IsActiveAt reports whether the reservation is occupying its slot at the given instant
func (r *Reservation) IsActiveAt(now time.Time) bool {
	return r.EffectiveStatus(now) == StatusActive
}

// HasFine returns true if a fine has been assessed
func (r *Reservation) HasFine() bool {
	return r.FineAmount != nil && r.FineAmount.IsPositive()
}

// ValidStatus проверяет, что строка является допустимым статусом
func ValidStatus(s string) bool {
	switch ReservationStatus(s) {
	case StatusUpcoming, StatusActive, StatusCompleted, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// ZoneReservationsFilter фильтр для выборки бронирований зоны
type ZoneReservationsFilter struct {
	ZoneID          int64              // Обязательный параметр
	From            *time.Time         // Начало периода (опционально)
	To              *time.Time         // Конец периода (опционально)
	Status          *ReservationStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли завершённые/истекшие/отменённые
}
