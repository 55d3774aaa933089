package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронирование нельзя отменить
	// (сессия уже началась либо закрыта)
	ErrCannotCancel = errors.New("reservation cannot be cancelled")

	// ErrNotActive возвращается при попытке завершить сессию, которая ещё не началась
	ErrNotActive = errors.New("session is not active")

	// ErrAlreadyClosed возвращается, когда сессия уже закрыта
	ErrAlreadyClosed = errors.New("session already closed")

	// ErrInvalidStatus возвращается при некорректном статусе в фильтре
	ErrInvalidStatus = errors.New("invalid reservation status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
