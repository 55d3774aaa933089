package list_zones

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/zones"
)

const (
	msgInvalidZoneID = "некорректный ID зоны"
	msgZoneNotFound  = "зона не найдена"
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

// Handle GET /api/v1/zones
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /zones - Failed to list zones: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /zones - %d zones", len(result.Zones))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleOne GET /api/v1/zones/{zoneId}
func (h *Handler) HandleOne(w http.ResponseWriter, r *http.Request) {
	zoneID, err := strconv.ParseInt(mux.Vars(r)["zoneId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /zones/{id} - Invalid zone ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidZoneID)
		return
	}

	result, err := h.service.GetByID(r.Context(), zoneID)
	if err != nil {
		switch {
		case errors.Is(err, zones.ErrZoneNotFound):
			h.logger.Warn("GET /zones/{id} - Zone not found: zone_id=%d", zoneID)
			handlers.RespondNotFound(w, msgZoneNotFound)

		default:
			h.logger.Error("GET /zones/{id} - Failed: zone_id=%d, error=%v", zoneID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
