package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/reservation"
	zoneRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/zone"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
)

// UseCase use case создания бронирования слота.
// Проверка доступности и вставка выполняются в сериализуемой транзакции;
// последней линией обороны от гонки двух конкурентных бронирований служит
// EXCLUDE-ограничение на стороне БД, а не предварительное чтение
type UseCase struct {
	reservationRepo    ReservationRepository
	zoneRepo           ZoneRepository
	txManager          TransactionManager
	maxDurationMinutes int
	timeProvider       TimeProvider
	metrics            *metrics.Metrics
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	zoneRepo ZoneRepository,
	txManager TransactionManager,
	maxDurationMinutes int,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo:    reservationRepo,
		zoneRepo:           zoneRepo,
		txManager:          txManager,
		maxDurationMinutes: maxDurationMinutes,
		timeProvider:       &RealTimeProvider{},
		metrics:            m,
		logger:             logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, zone=%d, slot=%d, start=%s, duration=%dm",
		req.UserID, req.ZoneID, req.SlotNumber, req.StartTime.Format("2006-01-02 15:04"), req.DurationMinutes)

	now := uc.timeProvider.Now()

	// 1. Валидация входных данных
	if err := validateRequest(req, now, uc.maxDurationMinutes); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	window := domain.NewWindow(req.StartTime, req.DurationMinutes)

	var result *domain.Reservation

	// 2. Операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем зону
		zone, err := uc.zoneRepo.GetByID(txCtx, req.ZoneID)
		if err != nil {
			if errors.Is(err, zoneRepo.ErrZoneNotFound) {
				uc.logger.Warn("CreateReservation: zone id=%d not found", req.ZoneID)
				return ErrZoneNotFound
			}
			uc.logger.Error("CreateReservation: failed to get zone id=%d: %v", req.ZoneID, err)
			return fmt.Errorf("%w: failed to get zone: %v", ErrStoreUnavailable, err)
		}

		// 2.2. Номер слота должен существовать в зоне
		if req.SlotNumber > zone.Capacity {
			uc.logger.Warn("CreateReservation: slot %d out of range for zone id=%d (capacity=%d)",
				req.SlotNumber, zone.ID, zone.Capacity)
			return ErrSlotOutOfRange
		}

		// 2.3. Административный статус зоны блокирует новые бронирования,
		// не затрагивая уже существующие
		if !zone.AcceptsWindow(window, now) {
			uc.logger.Warn("CreateReservation: zone id=%d is %s, reservations blocked", zone.ID, zone.Status)
			return ErrZoneUnavailable
		}

		// 2.4. Проверяем доступность слота (с блокировкой строк внутри транзакции)
		existing, err := uc.reservationRepo.GetClaimingInWindow(txCtx, req.ZoneID, window)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get reservations: %v", err)
			return fmt.Errorf("%w: failed to get reservations: %v", ErrStoreUnavailable, err)
		}

		for _, res := range existing {
			if res.SlotNumber == req.SlotNumber && res.ClaimsSlot() && res.Window().Overlaps(window) {
				uc.logger.Warn("CreateReservation: slot %d in zone id=%d taken by reservation id=%d",
					req.SlotNumber, req.ZoneID, res.ID)
				return ErrSlotTaken
			}
		}

		// 2.5. Создаем бронирование
		reservation := &domain.Reservation{
			UserID:          req.UserID,
			ZoneID:          req.ZoneID,
			SlotNumber:      req.SlotNumber,
			StartTime:       req.StartTime,
			DurationMinutes: req.DurationMinutes,
			Status:          domain.StatusUpcoming,
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			// Гонка, проскочившая мимо предварительной проверки,
			// останавливается exclusion-ограничением БД
			if errors.Is(err, reservationRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateReservation: exclusion constraint rejected slot %d in zone id=%d",
					req.SlotNumber, req.ZoneID)
				return ErrSlotTaken
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d", result.ID)
	if uc.metrics != nil {
		uc.metrics.ReservationsCreatedTotal.WithLabelValues(strconv.FormatInt(result.ZoneID, 10)).Inc()
	}

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		ZoneID:          result.ZoneID,
		SlotNumber:      result.SlotNumber,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime(),
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		FineAmount:      result.FineAmount,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
