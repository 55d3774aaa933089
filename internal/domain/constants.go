package domain

import "github.com/shopspring/decimal"

// Default parking policy values, overridable via config
const (
	DefaultMaxDurationMinutes      = 90
	DefaultSweepIntervalSeconds    = 30
	DefaultOccupancyAlertThreshold = 80.0
)

// DefaultLateExitFine штраф за выезд после окончания окна (в условных единицах)
var DefaultLateExitFine = decimal.NewFromInt(10)

// Business validation constants
const (
	MinDurationMinutes = 1
	MinSlotNumber      = 1
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не претендующих на слот
// Используется при фильтрации для расчёта доступности
var InactiveStatuses = []ReservationStatus{
	StatusCompleted,
	StatusExpired,
	StatusCancelled,
}

// ClaimingStatuses список статусов, удерживающих слот
var ClaimingStatuses = []ReservationStatus{
	StatusUpcoming,
	StatusActive,
}
