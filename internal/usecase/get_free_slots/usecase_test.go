package get_free_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	zoneRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/zone"
)

type fakeReservationRepo struct {
	reservations []*domain.Reservation
	err          error
}

func (f *fakeReservationRepo) GetClaimingInWindow(_ context.Context, _ int64, _ domain.Window) ([]*domain.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reservations, nil
}

type fakeZoneRepo struct {
	zone *domain.Zone
	err  error
}

func (f *fakeZoneRepo) GetByID(_ context.Context, _ int64) (*domain.Zone, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.zone, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func at(hour, min int) time.Time {
	return time.Date(2025, 11, 10, hour, min, 0, 0, time.UTC)
}

func claiming(slot int, start time.Time, minutes int) *domain.Reservation {
	return &domain.Reservation{
		ID:              int64(slot * 100),
		ZoneID:          1,
		SlotNumber:      slot,
		StartTime:       start,
		DurationMinutes: minutes,
		Status:          domain.StatusUpcoming,
	}
}

func newUseCase(zone *domain.Zone, resRepo *fakeReservationRepo, now time.Time) *UseCase {
	uc := NewUseCase(resRepo, &fakeZoneRepo{zone: zone}, domain.DefaultMaxDurationMinutes, nopLogger{})
	uc.timeProvider = fixedClock{now: now}
	return uc
}

func TestExecuteOverlapExcludesSlot(t *testing.T) {
	// Зона на 3 слота, слот 1 занят окном [10:00, 11:00)
	zone := &domain.Zone{ID: 1, Capacity: 3, Status: domain.ZoneOpen}
	repo := &fakeReservationRepo{reservations: []*domain.Reservation{
		claiming(1, at(10, 0), 60),
	}}

	uc := newUseCase(zone, repo, at(9, 0))

	resp, err := uc.Execute(context.Background(), &Request{
		ZoneID:          1,
		Start:           at(10, 30),
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, resp.FreeSlots)
	assert.Equal(t, 3, resp.Capacity)
}

func TestExecuteTouchingWindowsDoNotConflict(t *testing.T) {
	zone := &domain.Zone{ID: 1, Capacity: 2, Status: domain.ZoneOpen}
	repo := &fakeReservationRepo{reservations: []*domain.Reservation{
		claiming(1, at(10, 0), 60), // [10:00, 11:00)
	}}

	uc := newUseCase(zone, repo, at(9, 0))

	resp, err := uc.Execute(context.Background(), &Request{
		ZoneID:          1,
		Start:           at(11, 0), // начинается ровно в момент окончания
		DurationMinutes: 30,
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, resp.FreeSlots)
}

func TestExecuteInactiveReservationsDoNotClaim(t *testing.T) {
	zone := &domain.Zone{ID: 1, Capacity: 2, Status: domain.ZoneOpen}

	completed := claiming(1, at(10, 0), 60)
	completed.Status = domain.StatusCompleted
	cancelled := claiming(2, at(10, 0), 60)
	cancelled.Status = domain.StatusCancelled

	repo := &fakeReservationRepo{reservations: []*domain.Reservation{completed, cancelled}}
	uc := newUseCase(zone, repo, at(9, 0))

	resp, err := uc.Execute(context.Background(), &Request{
		ZoneID:          1,
		Start:           at(10, 0),
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, resp.FreeSlots)
}

func TestExecuteLegacyEmptyStatusClaims(t *testing.T) {
	zone := &domain.Zone{ID: 1, Capacity: 2, Status: domain.ZoneOpen}

	legacy := claiming(1, at(10, 0), 60)
	legacy.Status = ""

	repo := &fakeReservationRepo{reservations: []*domain.Reservation{legacy}}
	uc := newUseCase(zone, repo, at(9, 0))

	resp, err := uc.Execute(context.Background(), &Request{
		ZoneID:          1,
		Start:           at(10, 30),
		DurationMinutes: 30,
	})

	require.NoError(t, err)
	assert.Equal(t, []int{2}, resp.FreeSlots, "записи без статуса трактуются как upcoming")
}

func TestExecuteZoneNotOpen(t *testing.T) {
	until := at(23, 0)
	zone := &domain.Zone{ID: 1, Capacity: 3, Status: domain.ZoneMaintenance, StatusUntil: &until}
	repo := &fakeReservationRepo{}

	uc := newUseCase(zone, repo, at(9, 0))

	resp, err := uc.Execute(context.Background(), &Request{
		ZoneID:          1,
		Start:           at(10, 0),
		DurationMinutes: 30,
	})

	require.NoError(t, err)
	assert.Empty(t, resp.FreeSlots, "закрытая зона не предлагает слоты независимо от бронирований")
	assert.Equal(t, "maintenance", resp.ZoneStatus)
}

func TestExecuteValidation(t *testing.T) {
	zone := &domain.Zone{ID: 1, Capacity: 3, Status: domain.ZoneOpen}
	uc := newUseCase(zone, &fakeReservationRepo{}, at(9, 0))

	tests := []struct {
		name string
		req  Request
	}{
		{"zero duration", Request{ZoneID: 1, Start: at(10, 0), DurationMinutes: 0}},
		{"negative duration", Request{ZoneID: 1, Start: at(10, 0), DurationMinutes: -30}},
		{"duration over max", Request{ZoneID: 1, Start: at(10, 0), DurationMinutes: 91}},
		{"missing zone", Request{Start: at(10, 0), DurationMinutes: 30}},
		{"missing start", Request{ZoneID: 1, DurationMinutes: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecuteZoneNotFound(t *testing.T) {
	uc := NewUseCase(&fakeReservationRepo{}, &fakeZoneRepo{err: zoneRepo.ErrZoneNotFound},
		domain.DefaultMaxDurationMinutes, nopLogger{})
	uc.timeProvider = fixedClock{now: at(9, 0)}

	_, err := uc.Execute(context.Background(), &Request{
		ZoneID:          99,
		Start:           at(10, 0),
		DurationMinutes: 30,
	})

	assert.ErrorIs(t, err, ErrZoneNotFound)
}

func TestExecuteStoreUnreachableIsNeverAllFree(t *testing.T) {
	zone := &domain.Zone{ID: 1, Capacity: 3, Status: domain.ZoneOpen}
	repo := &fakeReservationRepo{err: errors.New("connection refused")}

	uc := newUseCase(zone, repo, at(9, 0))

	resp, err := uc.Execute(context.Background(), &Request{
		ZoneID:          1,
		Start:           at(10, 0),
		DurationMinutes: 30,
	})

	assert.ErrorIs(t, err, ErrAvailabilityUnknown)
	assert.Nil(t, resp, "при недоступном хранилище ответ не выдаётся вовсе")
}

func TestFreeSlotsDefensiveOnInvalidWindow(t *testing.T) {
	got := freeSlots(domain.NewWindow(at(10, 0), 0), 5, nil)
	assert.Empty(t, got, "нулевая длительность - ни одного свободного слота")

	got = freeSlots(domain.NewWindow(at(10, 0), -10), 5, nil)
	assert.Empty(t, got)
}
