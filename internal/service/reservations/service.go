package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ParkingService/internal/service/reservations/models"
)

// Service сервис для работы с бронированиями парковочных мест
type Service struct {
	reservationRepo ReservationRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(reservationRepo ReservationRepository, logger Logger) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает бронирование по ID.
// Пользователь видит только своё бронирование, администратор - любое
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, isAdmin bool) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	res, err := s.getOwned(ctx, id, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	return models.FromDomainReservation(res, s.timeProvider.Now()), nil
}

// GetProjection возвращает серверную проекцию состояния сессии.
// Клиентские часы источником истины не являются: при расхождении локального
// отсчёта с ответом сервера побеждает серверное значение
func (s *Service) GetProjection(ctx context.Context, id int64, userID int64, isAdmin bool) (*models.ProjectionResponse, error) {
	s.logger.Info("GetProjection: projecting reservation id=%d for user=%d", id, userID)

	res, err := s.getOwned(ctx, id, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	projection := domain.Project(s.timeProvider.Now(), res)
	return models.FromDomainProjection(res.ID, projection), nil
}

// GetUserReservations получает историю бронирований пользователя.
// Опционально фильтрует по статусу. Чужую историю видит только администратор
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	if req.UserID != req.CallerID && !req.IsAdmin {
		s.logger.Warn("GetUserReservations: access denied for user=%d to history of user=%d", req.CallerID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: successfully fetched %d reservations for user=%d", len(reservations), req.UserID)
	return models.FromDomainReservationList(reservations, s.timeProvider.Now()), nil
}

// GetZoneReservations получает бронирования зоны с гибкой фильтрацией.
// Поддерживает фильтрацию по периоду, статусу и включению закрытых сессий.
// Доступно только администраторам (проверка прав - на уровне middleware)
func (s *Service) GetZoneReservations(ctx context.Context, req *models.GetZoneReservationsRequest) (*models.ReservationListResponse, error) {
	logMsg := fmt.Sprintf("GetZoneReservations: fetching reservations for zone=%d", req.ZoneID)
	if req.From != nil && req.To != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetZoneReservations: invalid filter for zone=%d: %v", req.ZoneID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.GetByZoneWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetZoneReservations: repository error for zone=%d: %v", req.ZoneID, err)
		return nil, fmt.Errorf("%w: GetZoneReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetZoneReservations: successfully fetched %d reservations for zone=%d", len(reservations), req.ZoneID)
	return models.FromDomainReservationList(reservations, s.timeProvider.Now()), nil
}

// Cancel отменяет бронирование.
// Отмена возможна только до начала окна; начатую сессию нужно завершать
// через EndSession или подтверждение выезда
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelReservationRequest) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", id, req.UserID)

	res, err := s.getOwned(ctx, id, req.UserID, req.IsAdmin)
	if err != nil {
		return err
	}

	if !res.CanBeCancelled(s.timeProvider.Now()) {
		s.logger.Warn("Cancel: reservation id=%d cannot be cancelled, status=%s", id, res.Status)
		return ErrCannotCancel
	}

	if err := s.reservationRepo.Cancel(ctx, id); err != nil {
		if errors.Is(err, reservationRepo.ErrAlreadyClosed) {
			// Гонка: сессию успели закрыть между проверкой и отменой
			s.logger.Warn("Cancel: reservation id=%d closed concurrently", id)
			return ErrCannotCancel
		}
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", id)
	return nil
}

// EndSession досрочно завершает активную сессию.
// Сессия помечается завершённой без штрафа: водитель освобождает место раньше
func (s *Service) EndSession(ctx context.Context, id int64, req *models.EndSessionRequest) (*models.ReservationResponse, error) {
	s.logger.Info("EndSession: ending session id=%d by user=%d", id, req.UserID)

	res, err := s.getOwned(ctx, id, req.UserID, req.IsAdmin)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	switch res.EffectiveStatus(now) {
	case domain.StatusActive:
		// Завершать можно только начатую сессию
	case domain.StatusUpcoming:
		s.logger.Warn("EndSession: reservation id=%d has not started yet", id)
		return nil, ErrNotActive
	default:
		s.logger.Warn("EndSession: reservation id=%d already closed, status=%s", id, res.Status)
		return nil, ErrAlreadyClosed
	}

	closed, err := s.reservationRepo.CloseSession(ctx, id, domain.StatusCompleted, nil, false)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrAlreadyClosed) {
			s.logger.Warn("EndSession: reservation id=%d closed concurrently", id)
			return nil, ErrAlreadyClosed
		}
		s.logger.Error("EndSession: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: EndSession - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("EndSession: successfully completed session id=%d", id)
	return models.FromDomainReservation(closed, now), nil
}

// DeleteByUser удаляет все бронирования пользователя.
// Используется при удалении аккаунта
func (s *Service) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	s.logger.Info("DeleteByUser: deleting reservations for user=%d", userID)

	deleted, err := s.reservationRepo.DeleteByUser(ctx, userID)
	if err != nil {
		s.logger.Error("DeleteByUser: repository error for user=%d: %v", userID, err)
		return 0, fmt.Errorf("%w: DeleteByUser - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteByUser: deleted %d reservations for user=%d", deleted, userID)
	return deleted, nil
}

// getOwned получает бронирование и проверяет права доступа
func (s *Service) getOwned(ctx context.Context, id int64, userID int64, isAdmin bool) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("getOwned: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("getOwned: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getOwned - repository error: %v", ErrInternal, err)
	}

	if res.UserID != userID && !isAdmin {
		s.logger.Warn("getOwned: access denied for user=%d to reservation id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return res, nil
}
