package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrSlotConflict возвращается, когда вставка нарушила exclusion-ограничение
	// (слот уже занят пересекающимся окном). Маппится на 23P01
	ErrSlotConflict = errors.New("reservation.repository: slot already claimed for an overlapping window")

	// ErrAlreadyClosed возвращается при попытке закрыть бронирование,
	// уже находящееся в терминальном статусе
	ErrAlreadyClosed = errors.New("reservation.repository: reservation already closed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
