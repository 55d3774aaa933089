package zone

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

var zoneColumns = []string{
	"id",
	"building_code",
	"name",
	"capacity",
	"status",
	"status_reason",
	"status_until",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с парковочными зонами
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория зон
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает зону по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Zone, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(zoneColumns...).
		From("zones").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	z, err := scanZoneRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrZoneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan zone: %v", ErrScanRow, err)
	}

	return z, nil
}

// List получает все зоны, отсортированные по корпусу и имени
func (r *Repository) List(ctx context.Context) ([]*domain.Zone, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(zoneColumns...).
		From("zones").
		OrderBy("building_code ASC, name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	zones := make([]*domain.Zone, 0)
	for rows.Next() {
		z, err := scanZoneRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		zones = append(zones, z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return zones, nil
}

// SetStatus устанавливает административный статус зоны.
// Перевод в open всегда очищает причину и срок действия ограничения
func (r *Repository) SetStatus(
	ctx context.Context,
	id int64,
	status domain.ZoneStatus,
	reason *string,
	until *time.Time,
) (*domain.Zone, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("zones").
		Set("status", status).
		Where(squirrel.Eq{"id": id})

	if status == domain.ZoneOpen {
		updateBuilder = updateBuilder.
			Set("status_reason", nil).
			Set("status_until", nil)
	} else {
		updateBuilder = updateBuilder.
			Set("status_reason", reason).
			Set("status_until", until)
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING id, building_code, name, capacity, status, status_reason, status_until, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SetStatus - build update query: %v", ErrBuildQuery, err)
	}

	z, err := scanZoneRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrZoneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: SetStatus - scan zone: %v", ErrScanRow, err)
	}

	return z, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanZoneRow(row rowScanner) (*domain.Zone, error) {
	var (
		z                    domain.Zone
		statusReason         sql.NullString
		statusUntil          sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&z.ID,
		&z.BuildingCode,
		&z.Name,
		&z.Capacity,
		&z.Status,
		&statusReason,
		&statusUntil,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if statusReason.Valid {
		z.StatusReason = &statusReason.String
	}
	if statusUntil.Valid {
		z.StatusUntil = &statusUntil.Time
	}

	z.CreatedAt = createdAt.Time
	z.UpdatedAt = updatedAt.Time

	return &z, nil
}
