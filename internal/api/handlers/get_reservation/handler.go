package get_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/service/reservations"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
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

// Handle GET /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, userID, ok := h.parseIdentity(w, r, "GET /reservations/{id}")
	if !ok {
		return
	}

	reservation, err := h.service.GetByID(r.Context(), reservationID, userID, middleware.IsAdmin(r.Context()))
	if err != nil {
		h.respondServiceError(w, err, "GET /reservations/{id}", reservationID, userID)
		return
	}

	h.logger.Info("GET /reservations/{id} - Retrieved: reservation_id=%d, user_id=%d", reservationID, userID)
	handlers.RespondJSON(w, http.StatusOK, reservation)
}

// HandleProjection GET /api/v1/reservations/{reservationId}/projection
// Серверная проекция: при расхождении с локальным отсчётом клиента
// значение сервера считается истинным
func (h *Handler) HandleProjection(w http.ResponseWriter, r *http.Request) {
	reservationID, userID, ok := h.parseIdentity(w, r, "GET /reservations/{id}/projection")
	if !ok {
		return
	}

	projection, err := h.service.GetProjection(r.Context(), reservationID, userID, middleware.IsAdmin(r.Context()))
	if err != nil {
		h.respondServiceError(w, err, "GET /reservations/{id}/projection", reservationID, userID)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, projection)
}

func (h *Handler) parseIdentity(w http.ResponseWriter, r *http.Request, op string) (int64, int64, bool) {
	reservationID, err := strconv.ParseInt(mux.Vars(r)["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid reservation ID: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return 0, 0, false
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", op)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return 0, 0, false
	}

	return reservationID, userID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, op string, reservationID, userID int64) {
	switch {
	case errors.Is(err, reservations.ErrReservationNotFound):
		h.logger.Warn("%s - Not found: reservation_id=%d", op, reservationID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, reservations.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: reservation_id=%d, user_id=%d", op, reservationID, userID)
		handlers.RespondForbidden(w, msgForbidden)

	default:
		h.logger.Error("%s - Failed: reservation_id=%d, error=%v", op, reservationID, err)
		handlers.RespondInternalError(w)
	}
}
