package confirm_exit

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("confirm_exit: reservation not found")

	// ErrAccessDenied возвращается, когда пользователь не владеет бронированием
	ErrAccessDenied = errors.New("confirm_exit: access denied")

	// ErrCancelled возвращается при попытке подтвердить выезд по отменённому бронированию
	ErrCancelled = errors.New("confirm_exit: reservation was cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_exit: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_exit: internal error")
)
