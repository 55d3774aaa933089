package sweeper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type fakeReservationRepo struct {
	expired []*domain.Reservation
	err     error
	calls   atomic.Int64
	gotFine decimal.Decimal
	gotNow  time.Time
}

func (f *fakeReservationRepo) ExpireOverdue(_ context.Context, now time.Time, fine decimal.Decimal) ([]*domain.Reservation, error) {
	f.calls.Add(1)
	f.gotFine = fine
	f.gotNow = now
	if f.err != nil {
		return nil, f.err
	}
	return f.expired, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testFine = decimal.NewFromInt(10)

func TestSweepOncePassesClockAndFine(t *testing.T) {
	now := time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeReservationRepo{expired: []*domain.Reservation{
		{ID: 1, ZoneID: 1, SlotNumber: 3, Status: domain.StatusExpired},
		{ID: 2, ZoneID: 2, SlotNumber: 1, Status: domain.StatusExpired},
	}}

	s := New(repo, testFine, time.Second, nil, nopLogger{})
	s.timeProvider = fixedClock{now: now}

	count := s.sweepOnce(context.Background())

	assert.Equal(t, 2, count)
	assert.Equal(t, now, repo.gotNow)
	assert.True(t, repo.gotFine.Equal(testFine))
}

func TestSweepOnceSurvivesStoreError(t *testing.T) {
	repo := &fakeReservationRepo{err: assert.AnError}
	s := New(repo, testFine, time.Second, nil, nopLogger{})

	count := s.sweepOnce(context.Background())

	assert.Zero(t, count, "ошибка хранилища не роняет свипер")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	repo := &fakeReservationRepo{}
	s := New(repo, testFine, 5*time.Millisecond, nil, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// Даем свиперу выполнить первый немедленный проход и пару тиков
	require.Eventually(t, func() bool {
		return repo.calls.Load() >= 2
	}, time.Second, time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("свипер не остановился после отмены контекста")
	}
}
