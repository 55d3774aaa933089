package get_free_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	getFreeSlots "github.com/m04kA/SMC-ParkingService/internal/usecase/get_free_slots"
)

const (
	msgInvalidZoneID    = "некорректный ID зоны"
	msgInvalidStart     = "некорректный параметр start, ожидается RFC3339"
	msgInvalidDuration  = "некорректный параметр durationMinutes"
	msgInvalidInput     = "некорректные параметры запроса"
	msgZoneNotFound     = "зона не найдена"
	msgStoreUnavailable = "доступность неизвестна, попробуйте позже"
)

type Handler struct {
	useCase FreeSlotsUseCase
	logger  Logger
}

func NewHandler(useCase FreeSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/zones/{zoneId}/free-slots?start=RFC3339&durationMinutes=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	zoneID, err := strconv.ParseInt(vars["zoneId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /zones/{id}/free-slots - Invalid zone ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidZoneID)
		return
	}

	query := r.URL.Query()

	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		h.logger.Warn("GET /zones/{id}/free-slots - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	durationMinutes, err := strconv.Atoi(query.Get("durationMinutes"))
	if err != nil {
		h.logger.Warn("GET /zones/{id}/free-slots - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getFreeSlots.Request{
		ZoneID:          zoneID,
		Start:           start,
		DurationMinutes: durationMinutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, getFreeSlots.ErrZoneNotFound):
			h.logger.Warn("GET /zones/{id}/free-slots - Zone not found: zone_id=%d", zoneID)
			handlers.RespondNotFound(w, msgZoneNotFound)

		case errors.Is(err, getFreeSlots.ErrInvalidInput):
			h.logger.Warn("GET /zones/{id}/free-slots - Invalid input: zone_id=%d, error=%v", zoneID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getFreeSlots.ErrAvailabilityUnknown):
			// Хранилище недоступно: честный отказ вместо выдуманной доступности
			h.logger.Error("GET /zones/{id}/free-slots - Availability unknown: zone_id=%d, error=%v", zoneID, err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("GET /zones/{id}/free-slots - Failed: zone_id=%d, error=%v", zoneID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /zones/{id}/free-slots - %d free slots: zone_id=%d", len(result.FreeSlots), zoneID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
