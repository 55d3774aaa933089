package confirm_exit

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/reservation"
)

// UseCase адъюдикатор выезда: решает исход сессии при подтверждении выезда.
// Переход односторонний: однажды закрытая сессия больше не меняется,
// повторные вызовы возвращают зафиксированный результат без повторного штрафа
type UseCase struct {
	reservationRepo ReservationRepository
	lateExitFine    decimal.Decimal
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	lateExitFine decimal.Decimal,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		lateExitFine:    lateExitFine,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет подтверждение выезда.
// now <= end: сессия завершается без штрафа.
// now > end: сессия помечается истекшей, начисляется фиксированный штраф
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmExit: reservation=%d, user=%d", req.ReservationID, req.UserID)

	if req.ReservationID <= 0 || req.UserID <= 0 {
		return nil, fmt.Errorf("%w: reservationID and userID must be positive", ErrInvalidInput)
	}

	// 1. Получаем бронирование
	res, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("ConfirmExit: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("ConfirmExit: repository error for reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	// 2. Выезд подтверждает владелец либо администратор
	if res.UserID != req.UserID && !req.IsAdmin {
		uc.logger.Warn("ConfirmExit: access denied for user=%d to reservation id=%d", req.UserID, req.ReservationID)
		return nil, ErrAccessDenied
	}

	// 3. Отменённая сессия исходу не подлежит
	if res.Status == domain.StatusCancelled {
		uc.logger.Warn("ConfirmExit: reservation id=%d was cancelled", req.ReservationID)
		return nil, ErrCancelled
	}

	// 4. Уже закрытая сессия - идемпотентный no-op с зафиксированным исходом
	if res.IsTerminal() {
		uc.logger.Info("ConfirmExit: reservation id=%d already closed with status=%s", res.ID, res.Status)
		return fromReservation(res, true), nil
	}

	// 5. Решаем исход по времени подтверждения
	now := uc.timeProvider.Now()
	end := res.EndTime()

	var (
		status domain.ReservationStatus
		fine   *decimal.Decimal
	)

	if !now.After(end) {
		// Выезд вовремя (ровно в конце окна - тоже вовремя)
		status = domain.StatusCompleted
	} else {
		// Выезд с опозданием: сессия истекла, начисляем штраф
		status = domain.StatusExpired
		fine = &uc.lateExitFine
	}

	closed, err := uc.reservationRepo.CloseSession(ctx, res.ID, status, fine, true)
	if err != nil {
		// Гонка с пассивным свипом: сессию успели закрыть между чтением и
		// обновлением. Возвращаем уже зафиксированный исход, штраф не дублируется
		if errors.Is(err, reservationRepo.ErrAlreadyClosed) {
			current, getErr := uc.reservationRepo.GetByID(ctx, res.ID)
			if getErr != nil {
				uc.logger.Error("ConfirmExit: failed to re-read closed reservation id=%d: %v", res.ID, getErr)
				return nil, fmt.Errorf("%w: failed to re-read reservation: %v", ErrInternal, getErr)
			}
			uc.logger.Info("ConfirmExit: reservation id=%d closed concurrently with status=%s",
				current.ID, current.Status)
			return fromReservation(current, true), nil
		}
		uc.logger.Error("ConfirmExit: failed to close reservation id=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: failed to close session: %v", ErrInternal, err)
	}

	if fine != nil {
		uc.logger.Info("ConfirmExit: reservation id=%d expired, fine=%s assessed", closed.ID, fine.String())
	} else {
		uc.logger.Info("ConfirmExit: reservation id=%d completed on time", closed.ID)
	}

	return fromReservation(closed, false), nil
}

func fromReservation(res *domain.Reservation, alreadyClosed bool) *Response {
	return &Response{
		ID:            res.ID,
		Status:        string(res.Status),
		FineAmount:    res.FineAmount,
		ExitConfirmed: res.ExitConfirmed,
		AlreadyClosed: alreadyClosed,
		ClosedAt:      res.UpdatedAt,
	}
}
