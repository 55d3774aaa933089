package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics контейнер всех prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBPoolOpen      *prometheus.GaugeVec
	DBPoolIdle      *prometheus.GaugeVec
	DBPoolInUse     *prometheus.GaugeVec

	// Доменные метрики
	ReservationsCreatedTotal *prometheus.CounterVec
	ReservationsClosedTotal  *prometheus.CounterVec
	FinesAssessedTotal       *prometheus.CounterVec
	SweepRunsTotal           *prometheus.CounterVec
	SweepExpiredTotal        *prometheus.CounterVec
	ZoneOccupancyRate        *prometheus.GaugeVec
	EventsPublishedTotal     *prometheus.CounterVec
	StreamSubscribers        *prometheus.GaugeVec
}

// New регистрирует и возвращает метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBPoolOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		ReservationsCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_reservations_created_total",
			Help:        "Total number of created reservations",
			ConstLabels: constLabels,
		}, []string{"zone"}),

		ReservationsClosedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_reservations_closed_total",
			Help:        "Total number of reservations moved to a terminal status",
			ConstLabels: constLabels,
		}, []string{"status"}),

		FinesAssessedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_fines_assessed_total",
			Help:        "Total number of late-exit fines assessed",
			ConstLabels: constLabels,
		}, []string{"source"}),

		SweepRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_sweep_runs_total",
			Help:        "Total number of expiry sweep runs",
			ConstLabels: constLabels,
		}, []string{"result"}),

		SweepExpiredTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_sweep_expired_total",
			Help:        "Total number of reservations expired by the sweep",
			ConstLabels: constLabels,
		}, []string{"zone"}),

		ZoneOccupancyRate: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "parking_zone_occupancy_rate",
			Help:        "Last computed occupancy rate per zone (percent)",
			ConstLabels: constLabels,
		}, []string{"zone"}),

		EventsPublishedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_events_published_total",
			Help:        "Total number of change events fanned out to subscribers",
			ConstLabels: constLabels,
		}, []string{"table"}),

		StreamSubscribers: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "parking_stream_subscribers",
			Help:        "Number of currently connected event stream subscribers",
			ConstLabels: constLabels,
		}, []string{"transport"}),
	}
}
