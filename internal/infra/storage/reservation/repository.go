package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

// Код PostgreSQL exclusion_violation - нарушение EXCLUDE-ограничения
const pgExclusionViolation = "23P01"

// Выражение для вычисляемого конца окна бронирования
const endTimeExpr = "start_time + (duration_minutes * interval '1 minute')"

var reservationColumns = []string{
	"id",
	"user_id",
	"zone_id",
	"slot_number",
	"start_time",
	"duration_minutes",
	"status",
	"fine_amount",
	"exit_confirmed",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Защита от двойного бронирования обеспечивается EXCLUDE-ограничением на стороне БД:
// пересекающаяся вставка для того же (zone, slot) завершится ErrSlotConflict
// независимо от того, что приложение видело при предварительной проверке доступности.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"user_id",
			"zone_id",
			"slot_number",
			"start_time",
			"duration_minutes",
			"status",
			"exit_confirmed",
		).
		Values(
			res.UserID,
			res.ZoneID,
			res.SlotNumber,
			res.StartTime,
			res.DurationMinutes,
			res.Status,
			res.ExitConfirmed,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanReservationRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetClaimingInWindow получает бронирования зоны, удерживающие слот
// и пересекающиеся с указанным окном. Основной запрос расчёта доступности.
// Пустой статус в старых записях считается upcoming, поэтому выборка идёт
// по NOT IN от неактивных статусов, а не по IN от активных.
func (r *Repository) GetClaimingInWindow(ctx context.Context, zoneID int64, window domain.Window) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"zone_id": zoneID}).
		Where(squirrel.NotEq{"status": inactiveStatusStrings()}).
		Where(squirrel.Lt{"start_time": window.End()}).
		Where(squirrel.Expr(endTimeExpr+" > ?", window.Start)).
		OrderBy("slot_number ASC, start_time ASC")

	// Внутри транзакции бронирования блокируются на время проверки доступности
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetClaimingInWindow - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetClaimingInWindow - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetByZoneWithFilter получает бронирования зоны с гибкой фильтрацией
// (период, статус, включение неактивных). Используется административной выборкой
func (r *Repository) GetByZoneWithFilter(ctx context.Context, filter domain.ZoneReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"zone_id": filter.ZoneID})

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.To})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings()})
	}

	selectBuilder = selectBuilder.OrderBy("start_time DESC, slot_number ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByZoneWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByZoneWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// CountActiveAt подсчитывает бронирования, фактически занимающие слоты зоны
// в указанный момент. Счётчик нигде не кэшируется - занятость всегда
// пересчитывается из живых строк
func (r *Repository) CountActiveAt(ctx context.Context, zoneID int64, now time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"zone_id": zoneID}).
		Where(squirrel.NotEq{"status": inactiveStatusStrings()}).
		Where(squirrel.LtOrEq{"start_time": now}).
		Where(squirrel.Expr(endTimeExpr+" > ?", now)).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveAt - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveAt - execute query: %v", ErrExecQuery, err)
	}

	return count, nil
}

// CloseSession переводит бронирование в терминальный статус (completed/expired)
// с опциональным штрафом. Guard по статусу делает переход односторонним:
// повторный вызов для уже закрытой сессии возвращает ErrAlreadyClosed,
// и вызывающая сторона перечитывает зафиксированный результат.
func (r *Repository) CloseSession(
	ctx context.Context,
	id int64,
	status domain.ReservationStatus,
	fine *decimal.Decimal,
	exitConfirmed bool,
) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("exit_confirmed", exitConfirmed).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": claimingStatusStrings()})

	if fine != nil {
		updateBuilder = updateBuilder.Set("fine_amount", *fine)
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING " + joinColumns(reservationColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CloseSession - build update query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanReservationRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		// Либо бронирования нет, либо оно уже в терминальном статусе
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrAlreadyClosed
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CloseSession - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// Cancel переводит бронирование в статус cancelled.
// Guard по статусу не даёт отменить уже закрытую сессию
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": claimingStatusStrings()}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrAlreadyClosed
	}

	return nil
}

// ExpireOverdue закрывает все незавершённые бронирования, чьё окно уже истекло:
// статус expired плюс штраф за неподтверждённый выезд. Один атомарный UPDATE,
// поэтому конкурентный confirm-exit и повторные запуски свипа не могут
// применить штраф дважды
func (r *Repository) ExpireOverdue(ctx context.Context, now time.Time, fine decimal.Decimal) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusExpired).
		Set("fine_amount", fine).
		Where(squirrel.Eq{"status": claimingStatusStrings()}).
		Where(squirrel.Expr(endTimeExpr+" < ?", now)).
		Suffix("RETURNING " + joinColumns(reservationColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ExpireOverdue - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireOverdue - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// DeleteByUser физически удаляет все бронирования пользователя.
// Отладочно-административная операция, в обычных сценариях история не удаляется
func (r *Repository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByUser - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByUser - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByUser - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanReservationRow сканирует одну строку результата в бронирование
func (r *Repository) scanReservationRow(row rowScanner) (*domain.Reservation, error) {
	var (
		res                  domain.Reservation
		fineAmount           sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.ZoneID,
		&res.SlotNumber,
		&res.StartTime,
		&res.DurationMinutes,
		&res.Status,
		&fineAmount,
		&res.ExitConfirmed,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fineAmount.Valid {
		fine, err := decimal.NewFromString(fineAmount.String)
		if err != nil {
			return nil, fmt.Errorf("invalid fine_amount %q: %v", fineAmount.String, err)
		}
		res.FineAmount = &fine
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := r.scanReservationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgExclusionViolation
}

func inactiveStatusStrings() []string {
	out := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		out[i] = string(s)
	}
	return out
}

func claimingStatusStrings() []string {
	out := make([]string, len(domain.ClaimingStatuses))
	for i, s := range domain.ClaimingStatuses {
		out[i] = string(s)
	}
	return out
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
