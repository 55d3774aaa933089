package create_reservation

import "errors"

var (
	// ErrZoneNotFound возвращается, когда зона не найдена
	ErrZoneNotFound = errors.New("create_reservation: zone not found")

	// ErrZoneUnavailable возвращается, когда административный статус зоны
	// запрещает новые бронирования на запрошенное окно
	ErrZoneUnavailable = errors.New("create_reservation: zone does not accept reservations for this window")

	// ErrSlotOutOfRange возвращается, когда номер слота вне [1, capacity]
	ErrSlotOutOfRange = errors.New("create_reservation: slot number out of range")

	// ErrSlotTaken возвращается, когда слот занят пересекающимся бронированием.
	// Восстанавливается пересчётом доступности, не молчаливым ретраем на другой слот
	ErrSlotTaken = errors.New("create_reservation: slot is no longer available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrStoreUnavailable возвращается, когда хранилище недоступно.
	// Бронирование в этом случае не продолжается
	ErrStoreUnavailable = errors.New("create_reservation: store unreachable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
