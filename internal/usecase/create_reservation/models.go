package create_reservation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID          int64     // ID пользователя
	ZoneID          int64     // ID зоны
	SlotNumber      int       // Номер слота в зоне
	StartTime       time.Time // Начало окна
	DurationMinutes int       // Длительность окна в минутах
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64            // ID созданного бронирования
	UserID          int64            // ID пользователя
	ZoneID          int64            // ID зоны
	SlotNumber      int              // Номер слота
	StartTime       time.Time        // Начало окна
	EndTime         time.Time        // Конец окна (start + duration)
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус бронирования
	FineAmount      *decimal.Decimal // Штраф (при создании всегда nil)
	CreatedAt       time.Time        // Время создания
	UpdatedAt       time.Time        // Время обновления
}
