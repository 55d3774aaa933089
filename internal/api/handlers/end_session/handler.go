package end_session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/service/reservations"
	"github.com/m04kA/SMC-ParkingService/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgNotActive            = "сессия еще не началась"
	msgAlreadyClosed        = "сессия уже закрыта"
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

// Handle POST /api/v1/reservations/{reservationId}/end
// Досрочное завершение: место освобождается сразу, штраф не начисляется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := strconv.ParseInt(mux.Vars(r)["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/end - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/end - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.EndSession(r.Context(), reservationID, &models.EndSessionRequest{
		UserID:  userID,
		IsAdmin: middleware.IsAdmin(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/end - Not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/end - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrNotActive):
			h.logger.Warn("POST /reservations/{id}/end - Not active: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgNotActive)

		case errors.Is(err, reservations.ErrAlreadyClosed):
			h.logger.Warn("POST /reservations/{id}/end - Already closed: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyClosed)

		default:
			h.logger.Error("POST /reservations/{id}/end - Failed: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/end - Session completed early: reservation_id=%d, user_id=%d",
		reservationID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
