package zones

import "errors"

var (
	// ErrZoneNotFound возвращается, когда зона не найдена
	ErrZoneNotFound = errors.New("zone not found")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус зоны
	ErrInvalidStatus = errors.New("invalid zone status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
