package confirm_exit

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/reservation"
)

// fakeReservationRepo имитирует guarded UPDATE репозитория: закрыть можно
// только сессию в статусе upcoming/active, иначе ErrAlreadyClosed
type fakeReservationRepo struct {
	reservation *domain.Reservation
	// sweptState, если задан, возвращается повторными чтениями: имитация
	// свипа, закрывшего сессию между GetByID и CloseSession
	sweptState *domain.Reservation
	getErr     error
	closeErr   error
	getCalls   int
	closeCalls int
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.sweptState != nil && f.getCalls > 1 {
		clone := *f.sweptState
		return &clone, nil
	}
	if f.reservation == nil || f.reservation.ID != id {
		return nil, reservationRepo.ErrReservationNotFound
	}
	clone := *f.reservation
	return &clone, nil
}

func (f *fakeReservationRepo) CloseSession(_ context.Context, id int64, status domain.ReservationStatus, fine *decimal.Decimal, exitConfirmed bool) (*domain.Reservation, error) {
	f.closeCalls++
	if f.closeErr != nil {
		return nil, f.closeErr
	}
	if f.reservation == nil || f.reservation.ID != id {
		return nil, reservationRepo.ErrReservationNotFound
	}
	if !f.reservation.ClaimsSlot() {
		return nil, reservationRepo.ErrAlreadyClosed
	}
	f.reservation.Status = status
	f.reservation.FineAmount = fine
	f.reservation.ExitConfirmed = exitConfirmed
	f.reservation.UpdatedAt = time.Now()
	clone := *f.reservation
	return &clone, nil
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

var testFine = decimal.NewFromInt(10)

// Сессия [10:00, 11:00) пользователя 42
func activeReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:              1,
		UserID:          42,
		ZoneID:          1,
		SlotNumber:      2,
		StartTime:       at(10, 0),
		DurationMinutes: 60,
		Status:          domain.StatusActive,
	}
}

func newUseCase(repo *fakeReservationRepo, now time.Time) *UseCase {
	uc := NewUseCase(repo, testFine, nopLogger{})
	uc.timeProvider = fixedClock{now: now}
	return uc
}

func TestExecuteOnTimeExitCompletesWithoutFine(t *testing.T) {
	repo := &fakeReservationRepo{reservation: activeReservation()}
	uc := newUseCase(repo, at(10, 45))

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: 1, UserID: 42})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.Nil(t, resp.FineAmount)
	assert.True(t, resp.ExitConfirmed)
	assert.False(t, resp.AlreadyClosed)
}

func TestExecuteExitExactlyAtEndIsOnTime(t *testing.T) {
	repo := &fakeReservationRepo{reservation: activeReservation()}
	uc := newUseCase(repo, at(11, 0))

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: 1, UserID: 42})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.Nil(t, resp.FineAmount, "выезд ровно в конце окна штрафа не даёт")
}

func TestExecuteLateExitExpiresWithFine(t *testing.T) {
	repo := &fakeReservationRepo{reservation: activeReservation()}
	uc := newUseCase(repo, at(11, 0).Add(time.Second))

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: 1, UserID: 42})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusExpired), resp.Status)
	require.NotNil(t, resp.FineAmount)
	assert.True(t, resp.FineAmount.Equal(testFine))
	assert.True(t, resp.ExitConfirmed)
}

func TestExecuteRepeatedCallReturnsRecordedOutcome(t *testing.T) {
	repo := &fakeReservationRepo{reservation: activeReservation()}
	uc := newUseCase(repo, at(11, 30))

	first, err := uc.Execute(context.Background(), &Request{ReservationID: 1, UserID: 42})
	require.NoError(t, err)
	require.NotNil(t, first.FineAmount)

	second, err := uc.Execute(context.Background(), &Request{ReservationID: 1, UserID: 42})
	require.NoError(t, err)

	assert.True(t, second.AlreadyClosed)
	assert.Equal(t, first.Status, second.Status)
	require.NotNil(t, second.FineAmount)
	assert.True(t, second.FineAmount.Equal(testFine), "штраф не начисляется повторно")
	assert.Equal(t, 1, repo.closeCalls, "повторный вызов не трогает хранилище")
}

func TestExecuteConcurrentSweepClosureReturnsRecorded(t *testing.T) {
	// Свип закрыл сессию между чтением и обновлением: первый GetByID видит
	// активную запись, CloseSession натыкается на уже закрытую, повторное
	// чтение возвращает зафиксированный свипом исход
	swept := activeReservation()
	swept.Status = domain.StatusExpired
	swept.FineAmount = &testFine

	repo := &fakeReservationRepo{
		reservation: activeReservation(),
		sweptState:  swept,
		closeErr:    reservationRepo.ErrAlreadyClosed,
	}
	uc := newUseCase(repo, at(11, 30))

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: 1, UserID: 42})

	require.NoError(t, err)
	assert.True(t, resp.AlreadyClosed)
	assert.Equal(t, string(domain.StatusExpired), resp.Status)
	require.NotNil(t, resp.FineAmount)
	assert.True(t, resp.FineAmount.Equal(testFine))
}

func TestExecuteEarlyExitBeforeStartCompletes(t *testing.T) {
	res := activeReservation()
	res.Status = domain.StatusUpcoming
	repo := &fakeReservationRepo{reservation: res}
	uc := newUseCase(repo, at(9, 30))

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: 1, UserID: 42})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.Nil(t, resp.FineAmount)
}

func TestExecuteAccessDeniedForStranger(t *testing.T) {
	repo := &fakeReservationRepo{reservation: activeReservation()}
	uc := newUseCase(repo, at(10, 30))

	_, err := uc.Execute(context.Background(), &Request{ReservationID: 1, UserID: 99})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, repo.closeCalls)
}

func TestExecuteAdminMayConfirmForeignExit(t *testing.T) {
	repo := &fakeReservationRepo{reservation: activeReservation()}
	uc := newUseCase(repo, at(10, 30))

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: 1, UserID: 99, IsAdmin: true})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
}

func TestExecuteCancelledReservationRejected(t *testing.T) {
	res := activeReservation()
	res.Status = domain.StatusCancelled
	repo := &fakeReservationRepo{reservation: res}
	uc := newUseCase(repo, at(10, 30))

	_, err := uc.Execute(context.Background(), &Request{ReservationID: 1, UserID: 42})

	assert.ErrorIs(t, err, ErrCancelled)
}

func TestExecuteNotFound(t *testing.T) {
	repo := &fakeReservationRepo{}
	uc := newUseCase(repo, at(10, 30))

	_, err := uc.Execute(context.Background(), &Request{ReservationID: 5, UserID: 42})

	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecuteInvalidInput(t *testing.T) {
	uc := newUseCase(&fakeReservationRepo{}, at(10, 30))

	_, err := uc.Execute(context.Background(), &Request{ReservationID: 0, UserID: 42})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ReservationID: 1, UserID: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
