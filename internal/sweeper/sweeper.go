package sweeper

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
)

// Sweeper пассивный механизм истечения: периодически закрывает сессии,
// чьё окно закончилось без подтверждения выезда. Каждая такая сессия
// получает статус expired и фиксированный штраф.
//
// Свип идемпотентен относительно адъюдикатора: guarded UPDATE в репозитории
// закрывает только ещё открытые сессии, поэтому гонка свипа с подтверждением
// выезда не приводит к двойному штрафу
type Sweeper struct {
	reservationRepo ReservationRepository
	lateExitFine    decimal.Decimal
	interval        time.Duration
	metrics         *metrics.Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// New создает новый экземпляр свипера
func New(
	reservationRepo ReservationRepository,
	lateExitFine decimal.Decimal,
	interval time.Duration,
	m *metrics.Metrics,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		reservationRepo: reservationRepo,
		lateExitFine:    lateExitFine,
		interval:        interval,
		metrics:         m,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Run запускает цикл свипа до отмены контекста.
// Первый проход выполняется сразу, не дожидаясь интервала
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Sweeper: started with interval=%s, fine=%s", s.interval, s.lateExitFine)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweepOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper: stopped")
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

// sweepOnce выполняет один проход: единый UPDATE закрывает все просроченные
// сессии и возвращает закрытые строки
func (s *Sweeper) sweepOnce(ctx context.Context) int {
	now := s.timeProvider.Now()

	expired, err := s.reservationRepo.ExpireOverdue(ctx, now, s.lateExitFine)
	if err != nil {
		s.logger.Error("Sweeper: sweep failed: %v", err)
		if s.metrics != nil {
			s.metrics.SweepRunsTotal.WithLabelValues("error").Inc()
		}
		return 0
	}

	if s.metrics != nil {
		s.metrics.SweepRunsTotal.WithLabelValues("ok").Inc()
		for _, res := range expired {
			zone := strconv.FormatInt(res.ZoneID, 10)
			s.metrics.SweepExpiredTotal.WithLabelValues(zone).Inc()
			s.metrics.FinesAssessedTotal.WithLabelValues("sweep").Inc()
			s.metrics.ReservationsClosedTotal.WithLabelValues(string(res.Status)).Inc()
		}
	}

	if len(expired) > 0 {
		for _, res := range expired {
			s.logger.Info("Sweeper: expired reservation id=%d (zone=%d, slot=%d), fine=%s",
				res.ID, res.ZoneID, res.SlotNumber, s.lateExitFine)
		}
	}

	return len(expired)
}
