package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/cancel_reservation"
	confirmExitHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/confirm_exit"
	createReservationHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_reservation"
	endSessionHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/end_session"
	getFreeSlotsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_free_slots"
	getReservationHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_user_reservations"
	getZoneOccupancyHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_zone_occupancy"
	getZoneReservationsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_zone_reservations"
	listZonesHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/list_zones"
	setZoneStatusHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/set_zone_status"
	streamEventsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/stream_events"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/config"
	"github.com/m04kA/SMC-ParkingService/internal/events"
	reservationRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/reservation"
	zoneRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/zone"
	reservationsService "github.com/m04kA/SMC-ParkingService/internal/service/reservations"
	zonesService "github.com/m04kA/SMC-ParkingService/internal/service/zones"
	"github.com/m04kA/SMC-ParkingService/internal/sweeper"
	confirmExitUC "github.com/m04kA/SMC-ParkingService/internal/usecase/confirm_exit"
	createReservationUC "github.com/m04kA/SMC-ParkingService/internal/usecase/create_reservation"
	getFreeSlotsUC "github.com/m04kA/SMC-ParkingService/internal/usecase/get_free_slots"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

func main() {
	// .env опционален: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ParkingService...")
	log.Info("Configuration loaded from config.toml")

	lateExitFine, err := cfg.Parking.LateExitFineAmount()
	if err != nil {
		log.Fatal("Invalid late exit fine: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if err := runMigrations(db, cfg); err != nil {
		log.Fatal("Failed to run migrations: %v", err)
	}
	log.Info("Migrations applied from %s", cfg.Database.MigrationsPath)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		zoneRepository        *zoneRepo.Repository
		txMgr                 TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		zoneRepository = zoneRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		zoneRepository = zoneRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(reservationRepository, log)
	zoneSvc := zonesService.NewService(
		zoneRepository,
		reservationRepository,
		cfg.Parking.OccupancyAlertThreshold,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		zoneRepository,
		txMgr,
		cfg.Parking.MaxDurationMinutes,
		metricsCollector,
		log,
	)
	getFreeSlotsUseCase := getFreeSlotsUC.NewUseCase(
		reservationRepository,
		zoneRepository,
		cfg.Parking.MaxDurationMinutes,
		log,
	)
	confirmExitUseCase := confirmExitUC.NewUseCase(
		reservationRepository,
		lateExitFine,
		log,
	)

	// Фоновые компоненты: контекст останавливает свипер и хаб событий
	backgroundCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// Пассивное истечение просроченных сессий
	expirySweeper := sweeper.New(
		reservationRepository,
		lateExitFine,
		time.Duration(cfg.Parking.SweepIntervalSeconds)*time.Second,
		metricsCollector,
		log,
	)
	go expirySweeper.Run(backgroundCtx)

	// Хаб событий: LISTEN/NOTIFY -> SSE подписчики
	dbListener := pq.NewListener(cfg.Database.DSN(), 10*time.Second, time.Minute,
		func(_ pq.ListenerEventType, err error) {
			if err != nil {
				log.Error("DB listener event error: %v", err)
			}
		})
	eventHub := events.NewHub(events.PQSource{Listener: dbListener}, metricsCollector, log)
	go func() {
		if err := eventHub.Run(backgroundCtx); err != nil {
			log.Error("Event hub stopped with error: %v", err)
		}
	}()

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, getFreeSlotsUseCase, log)
	getFreeSlots := getFreeSlotsHandler.NewHandler(getFreeSlotsUseCase, log)
	confirmExit := confirmExitHandler.NewHandler(confirmExitUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	endSession := endSessionHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	listZones := listZonesHandler.NewHandler(zoneSvc, log)
	getZoneOccupancy := getZoneOccupancyHandler.NewHandler(zoneSvc, log)
	setZoneStatus := setZoneStatusHandler.NewHandler(zoneSvc, log)
	getZoneReservations := getZoneReservationsHandler.NewHandler(reservationSvc, log)
	streamEvents := streamEventsHandler.NewHandler(eventHub, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		r.Use(rl.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/zones", listZones.Handle).Methods(http.MethodGet)
	api.HandleFunc("/zones/{zoneId}", listZones.HandleOne).Methods(http.MethodGet)
	api.HandleFunc("/zones/{zoneId}/occupancy", getZoneOccupancy.Handle).Methods(http.MethodGet)
	api.HandleFunc("/zones/{zoneId}/free-slots", getFreeSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/events/stream", streamEvents.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)
	protected.Use(middleware.OptionalAdmin(cfg.Auth.JWTSecret))

	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/projection", getReservation.HandleProjection).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/confirm-exit", confirmExit.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/end", endSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.HandleDelete).Methods(http.MethodDelete)

	// ============================================================
	// ADMIN ROUTES (требуют Bearer JWT с ролью admin)
	// ============================================================

	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.AdminJWT(cfg.Auth.JWTSecret))

	admin.HandleFunc("/zones/{zoneId}/status", setZoneStatus.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/zones/{zoneId}/reservations", getZoneReservations.Handle).Methods(http.MethodGet)

	// CORS для браузерных клиентов
	handler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.HeaderUserID, "Last-Event-ID"},
		AllowCredentials: true,
	})(r)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фон: свипер и хаб событий
	stopBackground()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// runMigrations накатывает недостающие миграции при старте
func runMigrations(db *sql.DB, cfg *config.Config) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("init driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.Database.MigrationsPath, cfg.Database.DBName, driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply: %w", err)
	}

	return nil
}
