package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
)

const maxRetries = 3

// Коды PostgreSQL, при которых сериализуемую транзакцию имеет смысл повторить
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// TxBeginner интерфейс источника транзакций (реализуется *dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager управляет сериализуемыми транзакциями с повтором при конфликте
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn внутри транзакции уровня SERIALIZABLE.
// Транзакция прокидывается через контекст (dbmetrics.WithTx), репозитории
// подхватывают её через dbmetrics.GetExecutor.
// При serialization failure / deadlock повторяет до maxRetries раз.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return fmt.Errorf("txmanager: begin transaction: %w", err)
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
			return fmt.Errorf("txmanager: commit transaction: %w", err)
		}

		return nil
	}

	return fmt.Errorf("txmanager: transaction failed after %d attempts: %w", maxRetries, lastErr)
}

// isRetryable проверяет, что ошибка - конфликт сериализации или deadlock
func isRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return code == pgSerializationFailure || code == pgDeadlockDetected
	}
	return false
}
