package dbmetrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
)

// DBExecutor интерфейс исполнителя запросов (реализуется *sql.DB, *DB и транзакциями)
type DBExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// TxExecutor интерфейс транзакции
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

type ctxKey int

const txKey ctxKey = iota

// WithTx кладет активную транзакцию в контекст
func WithTx(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// GetExecutor возвращает транзакцию из контекста, если она есть, иначе fallback
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(txKey).(TxExecutor); ok {
		return tx
	}
	return fallback
}

// IsInTransaction сообщает, выполняется ли запрос внутри транзакции
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey).(TxExecutor)
	return ok
}

// DB обёртка над *sql.DB, снимающая метрики времени выполнения запросов
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// Wrap оборачивает *sql.DB сборщиком метрик
func Wrap(db *sql.DB, m *metrics.Metrics) *DB {
	return &DB{db: db, metrics: m}
}

// WrapWithDefault оборачивает *sql.DB и запускает периодический сбор статистики пула.
// Горутина останавливается закрытием stopCh.
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, dbName string, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, m)
	go wrapped.collectPoolStats(dbName, 10*time.Second, stopCh)
	return wrapped
}

func (d *DB) collectPoolStats(dbName string, interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := d.db.Stats()
			d.metrics.DBPoolOpen.WithLabelValues(dbName).Set(float64(stats.OpenConnections))
			d.metrics.DBPoolIdle.WithLabelValues(dbName).Set(float64(stats.Idle))
			d.metrics.DBPoolInUse.WithLabelValues(dbName).Set(float64(stats.InUse))
		case <-stopCh:
			return
		}
	}
}

func (d *DB) observe(operation string, start time.Time, err error) {
	d.metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		d.metrics.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// QueryContext выполняет запрос с замером времени
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe("query", start, err)
	return rows, err
}

// QueryRowContext выполняет запрос одной строки с замером времени
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe("query_row", start, nil)
	return row
}

// ExecContext выполняет запрос без результата с замером времени
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe("exec", start, err)
	return res, err
}

// BeginTx начинает транзакцию; запросы внутри неё тоже попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &metricsTx{tx: tx, db: d}, nil
}

// metricsTx транзакция с метриками
type metricsTx struct {
	tx *sql.Tx
	db *DB
}

func (t *metricsTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.db.observe("tx_query", start, err)
	return rows, err
}

func (t *metricsTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.db.observe("tx_query_row", start, nil)
	return row
}

func (t *metricsTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.db.observe("tx_exec", start, err)
	return res, err
}

func (t *metricsTx) Commit() error {
	return t.tx.Commit()
}

func (t *metricsTx) Rollback() error {
	return t.tx.Rollback()
}
