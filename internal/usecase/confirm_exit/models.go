package confirm_exit

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса подтверждения выезда
type Request struct {
	ReservationID int64 // ID бронирования
	UserID        int64 // ID пользователя, подтверждающего выезд
	IsAdmin       bool  // Признак административного доступа
}

// Response модель ответа адъюдикатора
type Response struct {
	ID            int64            // ID бронирования
	Status        string           // Терминальный статус: completed или expired
	FineAmount    *decimal.Decimal // Начисленный штраф (nil, если выезд вовремя)
	ExitConfirmed bool             // Подтверждён ли выезд пользователем
	AlreadyClosed bool             // true, если сессия была закрыта ранее (повторный вызов)
	ClosedAt      time.Time        // Момент последнего обновления записи
}
