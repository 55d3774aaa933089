package zones

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	zoneRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/zone"
	"github.com/m04kA/SMC-ParkingService/internal/service/zones/models"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
)

// Service сервис для работы с зонами парковки
type Service struct {
	zoneRepo        ZoneRepository
	reservationRepo ReservationRepository
	alertThreshold  float64
	timeProvider    TimeProvider
	metrics         *metrics.Metrics
	logger          Logger
}

// NewService создает новый экземпляр сервиса зон
func NewService(
	zoneRepo ZoneRepository,
	reservationRepo ReservationRepository,
	alertThreshold float64,
	m *metrics.Metrics,
	logger Logger,
) *Service {
	return &Service{
		zoneRepo:        zoneRepo,
		reservationRepo: reservationRepo,
		alertThreshold:  alertThreshold,
		timeProvider:    &RealTimeProvider{},
		metrics:         m,
		logger:          logger,
	}
}

// List возвращает все зоны с живой занятостью.
// Ошибка подсчёта занятости одной зоны не роняет весь список:
// зона возвращается без блока occupancy
func (s *Service) List(ctx context.Context) (*models.ZoneListResponse, error) {
	s.logger.Info("List: fetching all zones")

	zones, err := s.zoneRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	resp := &models.ZoneListResponse{Zones: make([]models.ZoneResponse, 0, len(zones))}

	for _, zone := range zones {
		zoneResp := models.FromDomainZone(zone)

		occupied, err := s.reservationRepo.CountActiveAt(ctx, zone.ID, now)
		if err != nil {
			s.logger.Warn("List: failed to count occupancy for zone=%d: %v", zone.ID, err)
		} else {
			zoneResp.Occupancy = models.FromDomainOccupancy(domain.Occupancy{
				ZoneID:        zone.ID,
				OccupiedCount: occupied,
				Capacity:      zone.Capacity,
			}, s.alertThreshold)
		}

		resp.Zones = append(resp.Zones, *zoneResp)
	}

	s.logger.Info("List: successfully fetched %d zones", len(resp.Zones))
	return resp, nil
}

// GetByID возвращает зону с живой занятостью
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ZoneResponse, error) {
	s.logger.Info("GetByID: fetching zone id=%d", id)

	zone, err := s.getZone(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := models.FromDomainZone(zone)

	occupied, err := s.reservationRepo.CountActiveAt(ctx, zone.ID, s.timeProvider.Now())
	if err != nil {
		s.logger.Warn("GetByID: failed to count occupancy for zone=%d: %v", zone.ID, err)
	} else {
		resp.Occupancy = models.FromDomainOccupancy(domain.Occupancy{
			ZoneID:        zone.ID,
			OccupiedCount: occupied,
			Capacity:      zone.Capacity,
		}, s.alertThreshold)
	}

	return resp, nil
}

// GetOccupancy возвращает агрегированную занятость зоны.
// Занятым считается место с активной сессией в текущий момент
func (s *Service) GetOccupancy(ctx context.Context, zoneID int64) (*models.OccupancyResponse, error) {
	s.logger.Info("GetOccupancy: aggregating occupancy for zone=%d", zoneID)

	zone, err := s.getZone(ctx, zoneID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.reservationRepo.CountActiveAt(ctx, zoneID, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("GetOccupancy: failed to count occupancy for zone=%d: %v", zoneID, err)
		return nil, fmt.Errorf("%w: GetOccupancy - repository error: %v", ErrInternal, err)
	}

	occupancy := domain.Occupancy{
		ZoneID:        zoneID,
		OccupiedCount: occupied,
		Capacity:      zone.Capacity,
	}

	resp := models.FromDomainOccupancy(occupancy, s.alertThreshold)
	if s.metrics != nil {
		s.metrics.ZoneOccupancyRate.WithLabelValues(strconv.FormatInt(zoneID, 10)).Set(resp.Rate)
	}
	if resp.Alert {
		s.logger.Warn("GetOccupancy: zone=%d occupancy %.1f%% over threshold %.1f%%",
			zoneID, resp.Rate, s.alertThreshold)
	}

	return resp, nil
}

// SetStatus устанавливает административный статус зоны.
// Перевод в open очищает причину и срок; закрытие зоны не трогает
// существующие бронирования - блокируются только новые
func (s *Service) SetStatus(ctx context.Context, zoneID int64, req *models.SetZoneStatusRequest) (*models.ZoneResponse, error) {
	s.logger.Info("SetStatus: setting zone=%d status=%s", zoneID, req.Status)

	status, err := models.ToDomainZoneStatus(req.Status)
	if err != nil {
		s.logger.Warn("SetStatus: invalid status=%s for zone=%d", req.Status, zoneID)
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	reason := req.Reason
	until := req.Until
	if status == domain.ZoneOpen {
		reason = nil
		until = nil
	}

	zone, err := s.zoneRepo.SetStatus(ctx, zoneID, status, reason, until)
	if err != nil {
		if errors.Is(err, zoneRepo.ErrZoneNotFound) {
			s.logger.Warn("SetStatus: zone id=%d not found", zoneID)
			return nil, ErrZoneNotFound
		}
		s.logger.Error("SetStatus: repository error for zone=%d: %v", zoneID, err)
		return nil, fmt.Errorf("%w: SetStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetStatus: zone=%d now %s", zoneID, zone.Status)
	return models.FromDomainZone(zone), nil
}

func (s *Service) getZone(ctx context.Context, id int64) (*domain.Zone, error) {
	zone, err := s.zoneRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, zoneRepo.ErrZoneNotFound) {
			s.logger.Warn("getZone: zone id=%d not found", id)
			return nil, ErrZoneNotFound
		}
		s.logger.Error("getZone: repository error for zone id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getZone - repository error: %v", ErrInternal, err)
	}
	return zone, nil
}
