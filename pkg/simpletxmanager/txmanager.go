package simpletxmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
)

const maxRetries = 3

// TransactionManager вариант менеджера транзакций без метрик, поверх чистого *sql.DB
type TransactionManager struct {
	db *sql.DB
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn внутри транзакции уровня SERIALIZABLE с повтором при конфликте
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return fmt.Errorf("simpletxmanager: begin transaction: %w", err)
		}

		err = fn(dbmetrics.WithTx(ctx, tx))
		if err != nil {
			_ = tx.Rollback()
			if isRetryable(err) {
				lastErr = err
				continue
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			if isRetryable(err) {
				lastErr = err
				continue
			}
			return fmt.Errorf("simpletxmanager: commit transaction: %w", err)
		}

		return nil
	}

	return fmt.Errorf("simpletxmanager: transaction failed after %d attempts: %w", maxRetries, lastErr)
}

func isRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return code == "40001" || code == "40P01"
	}
	return false
}
