package get_zone_occupancy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/zones"
)

const (
	msgInvalidZoneID    = "некорректный ID зоны"
	msgZoneNotFound     = "зона не найдена"
	msgStoreUnavailable = "занятость неизвестна, попробуйте позже"
)

type Handler struct {
	service ZoneService
	logger  Logger
}

func NewHandler(service ZoneService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/zones/{zoneId}/occupancy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	zoneID, err := strconv.ParseInt(mux.Vars(r)["zoneId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /zones/{id}/occupancy - Invalid zone ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidZoneID)
		return
	}

	result, err := h.service.GetOccupancy(r.Context(), zoneID)
	if err != nil {
		switch {
		case errors.Is(err, zones.ErrZoneNotFound):
			h.logger.Warn("GET /zones/{id}/occupancy - Zone not found: zone_id=%d", zoneID)
			handlers.RespondNotFound(w, msgZoneNotFound)

		case errors.Is(err, zones.ErrInternal):
			// Хранилище недоступно: занятость не угадывается
			h.logger.Error("GET /zones/{id}/occupancy - Store unavailable: zone_id=%d, error=%v", zoneID, err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("GET /zones/{id}/occupancy - Failed: zone_id=%d, error=%v", zoneID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /zones/{id}/occupancy - %d/%d occupied: zone_id=%d",
		result.OccupiedCount, result.Capacity, zoneID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
