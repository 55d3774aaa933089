package get_zone_reservations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/reservations"
	"github.com/m04kA/SMC-ParkingService/internal/service/reservations/models"
)

const (
	msgInvalidZoneID = "некорректный ID зоны"
	msgInvalidPeriod = "некорректный период, ожидается RFC3339"
	msgInvalidFilter = "некорректные параметры фильтра"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/zones/{zoneId}/reservations?from=&to=&status=&includeInactive=
// Админский листинг бронирований зоны без привязки к пользователю
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	zoneID, err := strconv.ParseInt(mux.Vars(r)["zoneId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /zones/{id}/reservations - Invalid zone ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidZoneID)
		return
	}

	query := r.URL.Query()
	req := &models.GetZoneReservationsRequest{
		ZoneID:          zoneID,
		IncludeInactive: query.Get("includeInactive") == "true",
	}

	if from := query.Get("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			h.logger.Warn("GET /zones/{id}/reservations - Invalid from: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		req.From = &parsed
	}

	if to := query.Get("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			h.logger.Warn("GET /zones/{id}/reservations - Invalid to: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		req.To = &parsed
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetZoneReservations(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /zones/{id}/reservations - Invalid filter: zone_id=%d", zoneID)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /zones/{id}/reservations - Failed: zone_id=%d, error=%v", zoneID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /zones/{id}/reservations - %d reservations: zone_id=%d",
		len(result.Reservations), zoneID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
