package domain

import "time"

// ZoneStatus represents the administrative status of a parking zone
type ZoneStatus string

const (
	ZoneOpen        ZoneStatus = "open"
	ZoneClosed      ZoneStatus = "closed"
	ZoneMaintenance ZoneStatus = "maintenance"
	ZoneReserved    ZoneStatus = "reserved"
)

// Zone represents a named parking area with a fixed slot capacity inside a building
type Zone struct {
	ID           int64
	BuildingCode string
	Name         string
	Capacity     int

	Status       ZoneStatus
	StatusReason *string
	StatusUntil  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen returns true if the zone accepts new reservations right now
func (z *Zone) IsOpen() bool {
	return z.Status == ZoneOpen
}

// AcceptsWindow reports whether new reservations for the candidate window are allowed.
// A non-open status blocks the whole window; if the status carries an expiry,
// only windows intersecting the restricted period are blocked.
func (z *Zone) AcceptsWindow(w Window, now time.Time) bool {
	if z.Status == ZoneOpen {
		return true
	}

	// Бессрочное ограничение закрывает любое окно
	if z.StatusUntil == nil {
		return false
	}

	// Ограничение уже истекло
	if !z.StatusUntil.After(now) {
		return true
	}

	// Окно блокируется, если пересекается с периодом [now, statusUntil)
	restricted := Window{Start: now, Duration: z.StatusUntil.Sub(now)}
	return !w.Overlaps(restricted)
}

// ValidZoneStatus проверяет, что строка является допустимым статусом зоны
func ValidZoneStatus(s string) bool {
	switch ZoneStatus(s) {
	case ZoneOpen, ZoneClosed, ZoneMaintenance, ZoneReserved:
		return true
	default:
		return false
	}
}

// Occupancy агрегат занятости зоны, всегда пересчитывается по живым данным
type Occupancy struct {
	ZoneID        int64
	OccupiedCount int
	Capacity      int
}

// Rate returns the occupancy rate as a percentage (0-100)
func (o Occupancy) Rate() float64 {
	if o.Capacity == 0 {
		return 0
	}
	return float64(o.OccupiedCount) / float64(o.Capacity) * 100
}

// AlertAt reports whether the rate meets or exceeds the given threshold (percent)
func (o Occupancy) AlertAt(threshold float64) bool {
	return o.Rate() >= threshold
}
