package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-ParkingService/internal/usecase/create_reservation"
	getFreeSlots "github.com/m04kA/SMC-ParkingService/internal/usecase/get_free_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные параметры бронирования"
	msgZoneNotFound       = "зона не найдена"
	msgZoneUnavailable    = "зона недоступна для бронирования"
	msgSlotOutOfRange     = "номер места вне вместимости зоны"
	msgSlotTaken          = "место занято на выбранное окно"
	msgStoreUnavailable   = "доступность неизвестна, попробуйте позже"
)

type Handler struct {
	useCase       CreateReservationUseCase
	freeSlotsCase FreeSlotsUseCase
	logger        Logger
}

func NewHandler(useCase CreateReservationUseCase, freeSlotsCase FreeSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase:       useCase,
		freeSlotsCase: freeSlotsCase,
		logger:        logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrSlotTaken):
			h.logger.Warn("POST /reservations - Slot taken: user_id=%d, zone_id=%d, slot=%d",
				userID, req.ZoneID, req.SlotNumber)
			h.respondConflict(w, r, &req)

		case errors.Is(err, createReservation.ErrZoneNotFound):
			h.logger.Warn("POST /reservations - Zone not found: zone_id=%d", req.ZoneID)
			handlers.RespondNotFound(w, msgZoneNotFound)

		case errors.Is(err, createReservation.ErrZoneUnavailable):
			h.logger.Warn("POST /reservations - Zone unavailable: zone_id=%d", req.ZoneID)
			handlers.RespondError(w, http.StatusConflict, msgZoneUnavailable)

		case errors.Is(err, createReservation.ErrSlotOutOfRange):
			h.logger.Warn("POST /reservations - Slot out of range: zone_id=%d, slot=%d", req.ZoneID, req.SlotNumber)
			handlers.RespondBadRequest(w, msgSlotOutOfRange)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrStoreUnavailable):
			h.logger.Error("POST /reservations - Store unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, user_id=%d, zone_id=%d, slot=%d",
		result.ID, userID, req.ZoneID, req.SlotNumber)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// respondConflict отвечает 409 с пересчитанной доступностью на то же окно,
// чтобы клиент мог сразу предложить другое место
func (h *Handler) respondConflict(w http.ResponseWriter, r *http.Request, req *CreateReservationRequest) {
	resp := ConflictResponse{Error: msgSlotTaken}

	available, err := h.freeSlotsCase.Execute(r.Context(), &getFreeSlots.Request{
		ZoneID:          req.ZoneID,
		Start:           req.StartTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		// Подсказка не обязательна: отдаем конфликт без неё
		h.logger.Warn("POST /reservations - Failed to recompute availability: zone_id=%d, error=%v",
			req.ZoneID, err)
	} else {
		resp.FreeSlots = available.FreeSlots
	}

	handlers.RespondJSON(w, http.StatusConflict, resp)
}
