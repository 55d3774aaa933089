package get_free_slots

import "time"

// Request модель запроса свободных слотов
type Request struct {
	ZoneID          int64     // ID зоны
	Start           time.Time // Начало запрашиваемого окна
	DurationMinutes int       // Длительность окна в минутах
}

// Response модель ответа со списком свободных номеров слотов
type Response struct {
	ZoneID          int64     // ID зоны
	Start           time.Time // Начало окна
	DurationMinutes int       // Длительность окна
	Capacity        int       // Вместимость зоны
	ZoneStatus      string    // Административный статус зоны
	FreeSlots       []int     // Свободные номера слотов по возрастанию
}
