package set_zone_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/zones"
	"github.com/m04kA/SMC-ParkingService/internal/service/zones/models"
)

const (
	msgInvalidZoneID      = "некорректный ID зоны"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "недопустимый статус зоны"
	msgZoneNotFound       = "зона не найдена"
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

// Handle PUT /api/v1/zones/{zoneId}/status
// Административное переопределение статуса зоны
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	zoneID, err := strconv.ParseInt(mux.Vars(r)["zoneId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /zones/{id}/status - Invalid zone ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidZoneID)
		return
	}

	var req models.SetZoneStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /zones/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetStatus(r.Context(), zoneID, &req)
	if err != nil {
		switch {
		case errors.Is(err, zones.ErrInvalidStatus):
			h.logger.Warn("PUT /zones/{id}/status - Invalid status=%s: zone_id=%d", req.Status, zoneID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, zones.ErrZoneNotFound):
			h.logger.Warn("PUT /zones/{id}/status - Zone not found: zone_id=%d", zoneID)
			handlers.RespondNotFound(w, msgZoneNotFound)

		default:
			h.logger.Error("PUT /zones/{id}/status - Failed: zone_id=%d, error=%v", zoneID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /zones/{id}/status - Status set to %s: zone_id=%d", result.Status, zoneID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
