package get_user_reservations

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
	msgInvalidUserID = "некорректный ID пользователя"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
	msgInvalidStatus = "некорректный статус бронирования"
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

// Handle GET /api/v1/users/{userId}/reservations?status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	targetUserID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{id}/reservations - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{id}/reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.GetUserReservationsRequest{
		UserID:   targetUserID,
		CallerID: callerID,
		IsAdmin:  middleware.IsAdmin(r.Context()),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetUserReservations(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /users/{id}/reservations - Access denied: target=%d, caller=%d",
				targetUserID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /users/{id}/reservations - Invalid status: user_id=%d", targetUserID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /users/{id}/reservations - Failed: user_id=%d, error=%v", targetUserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{id}/reservations - %d reservations: user_id=%d",
		len(result.Reservations), targetUserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// DeleteResponse ответ на массовое удаление истории бронирований
type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// HandleDelete DELETE /api/v1/users/{userId}/reservations
// Отладочно-административная операция: физически удаляет всю историю
// бронирований пользователя. Свою историю может удалить сам пользователь,
// чужую - только администратор
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	targetUserID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /users/{id}/reservations - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /users/{id}/reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if targetUserID != callerID && !middleware.IsAdmin(r.Context()) {
		h.logger.Warn("DELETE /users/{id}/reservations - Access denied: target=%d, caller=%d",
			targetUserID, callerID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	deleted, err := h.service.DeleteByUser(r.Context(), targetUserID)
	if err != nil {
		h.logger.Error("DELETE /users/{id}/reservations - Failed: user_id=%d, error=%v", targetUserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /users/{id}/reservations - Deleted %d reservations: user_id=%d",
		deleted, targetUserID)
	handlers.RespondJSON(w, http.StatusOK, DeleteResponse{Deleted: deleted})
}
