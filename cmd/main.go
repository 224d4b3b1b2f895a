package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	commitSessionHandler "github.com/m04kA/BRB-ScheduleService/internal/api/handlers/commit_exception_session"
	confirmMoveHandler "github.com/m04kA/BRB-ScheduleService/internal/api/handlers/confirm_move"
	editSessionHandler "github.com/m04kA/BRB-ScheduleService/internal/api/handlers/edit_exception_session"
	getAgendaHandler "github.com/m04kA/BRB-ScheduleService/internal/api/handlers/get_agenda"
	openSessionHandler "github.com/m04kA/BRB-ScheduleService/internal/api/handlers/open_exception_session"
	pendingUpdatesHandler "github.com/m04kA/BRB-ScheduleService/internal/api/handlers/pending_updates"
	proposeMoveHandler "github.com/m04kA/BRB-ScheduleService/internal/api/handlers/propose_move"
	resolveConflictHandler "github.com/m04kA/BRB-ScheduleService/internal/api/handlers/resolve_conflict"
	"github.com/m04kA/BRB-ScheduleService/internal/api/middleware"
	"github.com/m04kA/BRB-ScheduleService/internal/config"
	"github.com/m04kA/BRB-ScheduleService/internal/infra/changefeed"
	appointmentRepo "github.com/m04kA/BRB-ScheduleService/internal/infra/storage/appointment"
	employeeRepo "github.com/m04kA/BRB-ScheduleService/internal/infra/storage/employee"
	exceptionRepo "github.com/m04kA/BRB-ScheduleService/internal/infra/storage/exception"
	catalogServiceClient "github.com/m04kA/BRB-ScheduleService/internal/integrations/catalogservice"
	agendaService "github.com/m04kA/BRB-ScheduleService/internal/service/agenda"
	"github.com/m04kA/BRB-ScheduleService/internal/service/sessionstore"
	editExceptionsUC "github.com/m04kA/BRB-ScheduleService/internal/usecase/edit_exceptions"
	moveAppointmentUC "github.com/m04kA/BRB-ScheduleService/internal/usecase/move_appointment"
	resolveConflictUC "github.com/m04kA/BRB-ScheduleService/internal/usecase/resolve_conflict"
	resolveScheduleUC "github.com/m04kA/BRB-ScheduleService/internal/usecase/resolve_schedule"
	"github.com/m04kA/BRB-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/BRB-ScheduleService/pkg/logger"
	"github.com/m04kA/BRB-ScheduleService/pkg/metrics"
	"github.com/m04kA/BRB-ScheduleService/pkg/simpletxmanager"
	"github.com/m04kA/BRB-ScheduleService/pkg/txmanager"
)

func main() {
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

	log.Info("Starting BRB-ScheduleService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var feedMetrics changefeed.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		feedMetrics = metricsCollector
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

	// Подключаемся к Redis для change feed
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatal("Failed to ping redis: %v", err)
	}
	pingCancel()
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	// Инициализируем клиента каталога услуг
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog service client initialized (url=%s, timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Инициализируем репозитории и менеджер транзакций (с метриками или без)
	var (
		appointments *appointmentRepo.Repository
		employees    *employeeRepo.Repository
		exceptions   *exceptionRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointments = appointmentRepo.NewRepository(wrappedDB)
		employees = employeeRepo.NewRepository(wrappedDB)
		exceptions = exceptionRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointments = appointmentRepo.NewRepository(db)
		employees = employeeRepo.NewRepository(db)
		exceptions = exceptionRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Реестр эфемерного состояния: сессии редактирования, переносы, конфликты
	registry := sessionstore.New()

	// Change feed поверх Redis pub/sub
	feedPublisher := changefeed.NewPublisher(rdb, log, feedMetrics)
	feedSubscriber := changefeed.NewSubscriber(rdb, log, feedMetrics)

	subscriberCtx, stopSubscriber := context.WithCancel(context.Background())
	go feedSubscriber.Run(subscriberCtx)

	// Инициализируем сервисы
	agendaSvc := agendaService.NewService(appointments, employees, exceptions, log)

	// Инициализируем use cases
	resolveScheduleUseCase := resolveScheduleUC.NewUseCase(employees, exceptions, registry, log)
	moveUseCase := moveAppointmentUC.NewUseCase(appointments, catalogClient, registry, feedPublisher, log)
	resolveConflictUseCase := resolveConflictUC.NewUseCase(appointments, catalogClient, registry, txMgr, feedPublisher, log)
	editExceptionsUseCase := editExceptionsUC.NewUseCase(employees, exceptions, registry, feedPublisher, log)

	// Инициализируем handlers
	getAgenda := getAgendaHandler.NewHandler(resolveScheduleUseCase, agendaSvc, log)
	proposeMove := proposeMoveHandler.NewHandler(moveUseCase, log)
	confirmMove := confirmMoveHandler.NewHandler(moveUseCase, log)
	resolveConflict := resolveConflictHandler.NewHandler(resolveConflictUseCase, log)
	openSession := openSessionHandler.NewHandler(editExceptionsUseCase, log)
	editSession := editSessionHandler.NewHandler(editExceptionsUseCase, log)
	commitSession := commitSessionHandler.NewHandler(editExceptionsUseCase, log)
	pendingUpdates := pendingUpdatesHandler.NewHandler(feedSubscriber, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix; все роуты агенды требуют X-User-ID от gateway
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Агенда ---
	api.HandleFunc("/barbershops/{barbershop_id}/agenda",
		getAgenda.Handle).Methods(http.MethodGet)

	// Счётчик необработанных обновлений для UI
	api.HandleFunc("/barbershops/{barbershop_id}/pending-updates",
		pendingUpdates.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/barbershops/{barbershop_id}/pending-updates/ack",
		pendingUpdates.HandleAck).Methods(http.MethodPost)

	// --- Переносы записей ---
	api.HandleFunc("/moves", proposeMove.Handle).Methods(http.MethodPost)
	api.HandleFunc("/moves/{move_id}/confirm", confirmMove.HandleConfirm).Methods(http.MethodPost)
	api.HandleFunc("/moves/{move_id}", confirmMove.HandleCancel).Methods(http.MethodDelete)

	// --- Разрешение конфликтов ---
	api.HandleFunc("/conflicts/{conflict_id}/resolve", resolveConflict.Handle).Methods(http.MethodPost)

	// --- Сессии редактирования исключений ---
	api.HandleFunc("/exception-sessions", openSession.Handle).Methods(http.MethodPost)
	api.HandleFunc("/exception-sessions/{session_id}/toggle", editSession.HandleToggle).Methods(http.MethodPost)
	api.HandleFunc("/exception-sessions/{session_id}/drag/begin", editSession.HandleDragBegin).Methods(http.MethodPost)
	api.HandleFunc("/exception-sessions/{session_id}/drag/enter", editSession.HandleDragEnter).Methods(http.MethodPost)
	api.HandleFunc("/exception-sessions/{session_id}/drag/end", editSession.HandleDragEnd).Methods(http.MethodPost)
	api.HandleFunc("/exception-sessions/{session_id}/commit", commitSession.HandleCommit).Methods(http.MethodPost)
	api.HandleFunc("/exception-sessions/{session_id}", commitSession.HandleDiscard).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	stopSubscriber()

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
		log.Fatal("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
