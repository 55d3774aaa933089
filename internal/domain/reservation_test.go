package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func reservation(start time.Time, minutes int, status ReservationStatus) *Reservation {
	return &Reservation{
		ID:              1,
		UserID:          42,
		ZoneID:          7,
		SlotNumber:      3,
		StartTime:       start,
		DurationMinutes: minutes,
		Status:          status,
	}
}

func TestEffectiveStatusTimeDriven(t *testing.T) {
	start := at(9, 0)
	r := reservation(start, 60, StatusUpcoming)

	assert.Equal(t, StatusUpcoming, r.EffectiveStatus(at(8, 59)))
	assert.Equal(t, StatusActive, r.EffectiveStatus(at(9, 0)), "becomes active exactly at start")
	assert.Equal(t, StatusActive, r.EffectiveStatus(at(9, 59)))
	assert.Equal(t, StatusExpired, r.EffectiveStatus(at(10, 0)), "end is exclusive")
	assert.Equal(t, StatusExpired, r.EffectiveStatus(at(12, 0)))
}

func TestEffectiveStatusTerminalWins(t *testing.T) {
	start := at(9, 0)

	completed := reservation(start, 60, StatusCompleted)
	assert.Equal(t, StatusCompleted, completed.EffectiveStatus(at(9, 30)),
		"stored terminal status wins over the wall clock")

	cancelled := reservation(start, 60, StatusCancelled)
	assert.Equal(t, StatusCancelled, cancelled.EffectiveStatus(at(9, 30)))

	expired := reservation(start, 60, StatusExpired)
	assert.Equal(t, StatusExpired, expired.EffectiveStatus(at(8, 0)))
}

func TestEffectiveStatusLegacyEmptyStatus(t *testing.T) {
	r := reservation(at(9, 0), 30, "")
	assert.Equal(t, StatusUpcoming, r.EffectiveStatus(at(8, 0)),
		"rows without a status behave as upcoming")
	assert.True(t, r.ClaimsSlot())
}

func TestIsTerminalMonotonic(t *testing.T) {
	for _, s := range []ReservationStatus{StatusCompleted, StatusExpired, StatusCancelled} {
		assert.True(t, reservation(at(9, 0), 30, s).IsTerminal())
	}
	for _, s := range []ReservationStatus{StatusUpcoming, StatusActive, ""} {
		assert.False(t, reservation(at(9, 0), 30, s).IsTerminal())
	}
}

func TestCanBeCancelled(t *testing.T) {
	r := reservation(at(10, 0), 60, StatusUpcoming)

	assert.True(t, r.CanBeCancelled(at(9, 0)))
	assert.False(t, r.CanBeCancelled(at(10, 0)), "cannot cancel once started")
	assert.False(t, reservation(at(10, 0), 60, StatusCompleted).CanBeCancelled(at(9, 0)))
}

func TestHasFine(t *testing.T) {
	r := reservation(at(9, 0), 30, StatusExpired)
	assert.False(t, r.HasFine())

	fine := decimal.NewFromInt(10)
	r.FineAmount = &fine
	assert.True(t, r.HasFine())

	zero := decimal.Zero
	r.FineAmount = &zero
	assert.False(t, r.HasFine())
}

func TestProjectCountdownAndProgress(t *testing.T) {
	r := reservation(at(9, 0), 60, StatusUpcoming)

	p := Project(at(8, 30), r)
	assert.Equal(t, StatusUpcoming, p.Status)
	assert.Equal(t, int64(90*60), p.TimeRemainingSeconds, "remaining counts down to window end")
	assert.Equal(t, 0.0, p.ProgressPercent, "progress clamps at 0 before start")

	p = Project(at(9, 30), r)
	assert.Equal(t, StatusActive, p.Status)
	assert.Equal(t, int64(30*60), p.TimeRemainingSeconds)
	assert.InDelta(t, 50.0, p.ProgressPercent, 0.001)

	p = Project(at(10, 0), r)
	assert.Equal(t, StatusExpired, p.Status)
	assert.Equal(t, int64(0), p.TimeRemainingSeconds)
	assert.Equal(t, 100.0, p.ProgressPercent)
}

func TestProjectSubSecondRemainingRoundsUp(t *testing.T) {
	r := reservation(at(9, 0), 60, StatusActive)
	now := at(9, 59).Add(59*time.Second + 500*time.Millisecond)

	p := Project(now, r)
	assert.Equal(t, int64(1), p.TimeRemainingSeconds, "last partial second still shows 1")
}

func TestProjectTerminalReservation(t *testing.T) {
	r := reservation(at(9, 0), 60, StatusCompleted)

	p := Project(at(9, 15), r)
	assert.Equal(t, StatusCompleted, p.Status)
	assert.Equal(t, int64(0), p.TimeRemainingSeconds)
	assert.Equal(t, 100.0, p.ProgressPercent, "closed sessions always show full progress")
}

func TestOccupancyRate(t *testing.T) {
	o := Occupancy{ZoneID: 1, OccupiedCount: 2, Capacity: 10}
	assert.InDelta(t, 20.0, o.Rate(), 0.001)
	assert.False(t, o.AlertAt(80))

	o.OccupiedCount = 8
	assert.True(t, o.AlertAt(80), "threshold is inclusive")

	empty := Occupancy{Capacity: 0}
	assert.Equal(t, 0.0, empty.Rate(), "zero capacity never divides by zero")
}

func TestZoneAcceptsWindow(t *testing.T) {
	now := at(9, 0)
	window := NewWindow(at(10, 0), 60)

	open := &Zone{Status: ZoneOpen}
	assert.True(t, open.AcceptsWindow(window, now))

	closedForever := &Zone{Status: ZoneClosed}
	assert.False(t, closedForever.AcceptsWindow(window, now), "no expiry blocks everything")

	until := at(12, 0)
	maintenance := &Zone{Status: ZoneMaintenance, StatusUntil: &until}
	assert.False(t, maintenance.AcceptsWindow(window, now), "window inside restricted period")

	afterUntil := NewWindow(at(12, 0), 60)
	assert.True(t, maintenance.AcceptsWindow(afterUntil, now), "window after expiry is allowed")

	expiredUntil := at(8, 0)
	reopened := &Zone{Status: ZoneMaintenance, StatusUntil: &expiredUntil}
	assert.True(t, reopened.AcceptsWindow(window, now), "lapsed restriction no longer blocks")
}
