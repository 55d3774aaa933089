package get_free_slots

import "errors"

var (
	// ErrZoneNotFound возвращается, когда зона не найдена
	ErrZoneNotFound = errors.New("get_free_slots: zone not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_free_slots: invalid input data")

	// ErrAvailabilityUnknown возвращается, когда хранилище недоступно.
	// Доступность в этом случае неизвестна - ни "всё свободно", ни "всё занято";
	// бронирование по такому ответу продолжать нельзя
	ErrAvailabilityUnknown = errors.New("get_free_slots: availability unknown, store unreachable")
)
