package get_free_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	zoneRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/zone"
)

// UseCase use case расчёта свободных слотов (Availability Calculator)
type UseCase struct {
	reservationRepo    ReservationRepository
	zoneRepo           ZoneRepository
	maxDurationMinutes int
	timeProvider       TimeProvider
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	zoneRepo ZoneRepository,
	maxDurationMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo:    reservationRepo,
		zoneRepo:           zoneRepo,
		maxDurationMinutes: maxDurationMinutes,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Execute вычисляет свободные номера слотов зоны для кандидатного окна.
// Ошибка хранилища никогда не превращается в "всё свободно" или "всё занято" -
// наружу уходит явный ErrAvailabilityUnknown
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetFreeSlots: zone=%d, start=%s, duration=%dm",
		req.ZoneID, req.Start.Format("2006-01-02 15:04"), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxDurationMinutes); err != nil {
		uc.logger.Warn("GetFreeSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	window := domain.NewWindow(req.Start, req.DurationMinutes)

	// 2. Получаем зону
	zone, err := uc.zoneRepo.GetByID(ctx, req.ZoneID)
	if err != nil {
		if errors.Is(err, zoneRepo.ErrZoneNotFound) {
			uc.logger.Warn("GetFreeSlots: zone id=%d not found", req.ZoneID)
			return nil, ErrZoneNotFound
		}
		uc.logger.Error("GetFreeSlots: failed to get zone id=%d: %v", req.ZoneID, err)
		return nil, fmt.Errorf("%w: failed to get zone: %v", ErrAvailabilityUnknown, err)
	}

	response := &Response{
		ZoneID:          zone.ID,
		Start:           req.Start,
		DurationMinutes: req.DurationMinutes,
		Capacity:        zone.Capacity,
		ZoneStatus:      string(zone.Status),
		FreeSlots:       []int{},
	}

	// 3. Административный статус зоны перекрывает доступность всех слотов
	if !zone.AcceptsWindow(window, now) {
		uc.logger.Info("GetFreeSlots: zone id=%d is %s, no slots offered", zone.ID, zone.Status)
		return response, nil
	}

	// 4. Получаем бронирования, удерживающие слоты в этом окне
	reservations, err := uc.reservationRepo.GetClaimingInWindow(ctx, req.ZoneID, window)
	if err != nil {
		uc.logger.Error("GetFreeSlots: failed to get reservations for zone id=%d: %v", req.ZoneID, err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrAvailabilityUnknown, err)
	}

	// 5. Вычисляем свободные слоты
	response.FreeSlots = freeSlots(window, zone.Capacity, reservations)

	uc.logger.Info("GetFreeSlots: zone id=%d, %d/%d slots free",
		zone.ID, len(response.FreeSlots), zone.Capacity)

	return response, nil
}
