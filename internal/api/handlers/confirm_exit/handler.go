package confirm_exit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	confirmExit "github.com/m04kA/SMC-ParkingService/internal/usecase/confirm_exit"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgCancelled            = "бронирование было отменено"
)

type Handler struct {
	useCase ConfirmExitUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmExitUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/confirm-exit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := strconv.ParseInt(mux.Vars(r)["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/confirm-exit - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/confirm-exit - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmExit.Request{
		ReservationID: reservationID,
		UserID:        userID,
		IsAdmin:       middleware.IsAdmin(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmExit.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/confirm-exit - Not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirmExit.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/confirm-exit - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmExit.ErrCancelled):
			h.logger.Warn("POST /reservations/{id}/confirm-exit - Cancelled: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgCancelled)

		case errors.Is(err, confirmExit.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/confirm-exit - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidReservationID)

		default:
			h.logger.Error("POST /reservations/{id}/confirm-exit - Failed: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/confirm-exit - Outcome %s: reservation_id=%d, already_closed=%t",
		result.Status, reservationID, result.AlreadyClosed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
