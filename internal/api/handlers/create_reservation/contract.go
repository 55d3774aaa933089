package create_reservation

import (
	"context"

	createReservation "github.com/m04kA/SMC-ParkingService/internal/usecase/create_reservation"
	getFreeSlots "github.com/m04kA/SMC-ParkingService/internal/usecase/get_free_slots"
)

type CreateReservationUseCase interface {
	Execute(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error)
}

// FreeSlotsUseCase нужен для подсказки в ответе 409:
// вместе с отказом клиент получает пересчитанную доступность
type FreeSlotsUseCase interface {
	Execute(ctx context.Context, req *getFreeSlots.Request) (*getFreeSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
