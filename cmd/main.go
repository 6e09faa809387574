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

	addProductSaleHandler "github.com/salonkit/booking-service/internal/api/handlers/add_product_sale"
	commissionReportHandler "github.com/salonkit/booking-service/internal/api/handlers/commission_report"
	completeAppointmentHandler "github.com/salonkit/booking-service/internal/api/handlers/complete_appointment"
	createAppointmentHandler "github.com/salonkit/booking-service/internal/api/handlers/create_appointment"
	deleteAppointmentHandler "github.com/salonkit/booking-service/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/salonkit/booking-service/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/salonkit/booking-service/internal/api/handlers/get_available_slots"
	getClientLoyaltyHandler "github.com/salonkit/booking-service/internal/api/handlers/get_client_loyalty"
	getScheduleHandler "github.com/salonkit/booking-service/internal/api/handlers/get_schedule"
	listShopAppointmentsHandler "github.com/salonkit/booking-service/internal/api/handlers/list_shop_appointments"
	startAppointmentHandler "github.com/salonkit/booking-service/internal/api/handlers/start_appointment"
	updateScheduleHandler "github.com/salonkit/booking-service/internal/api/handlers/update_schedule"
	"github.com/salonkit/booking-service/internal/api/middleware"
	"github.com/salonkit/booking-service/internal/app"
	"github.com/salonkit/booking-service/internal/config"
	appointmentRepo "github.com/salonkit/booking-service/internal/infra/storage/appointment"
	catalogRepo "github.com/salonkit/booking-service/internal/infra/storage/catalog"
	clientRepo "github.com/salonkit/booking-service/internal/infra/storage/client"
	professionalRepo "github.com/salonkit/booking-service/internal/infra/storage/professional"
	scheduleRepo "github.com/salonkit/booking-service/internal/infra/storage/schedule"
	appointmentsService "github.com/salonkit/booking-service/internal/service/appointments"
	clientsService "github.com/salonkit/booking-service/internal/service/clients"
	scheduleService "github.com/salonkit/booking-service/internal/service/schedule"
	commissionReportUC "github.com/salonkit/booking-service/internal/usecase/commission_report"
	completeAppointmentUC "github.com/salonkit/booking-service/internal/usecase/complete_appointment"
	createAppointmentUC "github.com/salonkit/booking-service/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/salonkit/booking-service/internal/usecase/get_available_slots"
	"github.com/salonkit/booking-service/pkg/dbmetrics"
	"github.com/salonkit/booking-service/pkg/logger"
	"github.com/salonkit/booking-service/pkg/metrics"
	"github.com/salonkit/booking-service/pkg/simpletxmanager"
	"github.com/salonkit/booking-service/pkg/txmanager"
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

	log.Info("Starting booking-service...")
	log.Info("Configuration loaded from config.toml")

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
	if cfg.Migrations.Enabled {
		migrator, err := app.NewMigrator(db, cfg.Migrations.Dir)
		if err != nil {
			log.Fatal("Failed to init migrator: %v", err)
		}
		if err := migrator.Run(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		version, err := migrator.Version(context.Background())
		if err != nil {
			log.Fatal("Failed to get migrations version: %v", err)
		}
		log.Info("Migrations applied, schema version %d", version)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository  *appointmentRepo.Repository
		scheduleRepository     *scheduleRepo.Repository
		catalogRepository      *catalogRepo.Repository
		clientRepository       *clientRepo.Repository
		professionalRepository *professionalRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		clientRepository = clientRepo.NewRepository(wrappedDB)
		professionalRepository = professionalRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		clientRepository = clientRepo.NewRepository(db)
		professionalRepository = professionalRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		catalogRepository,
		txMgr,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		txMgr,
		log,
	)
	clientsSvc := clientsService.NewService(clientRepository, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		catalogRepository,
		professionalRepository,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		catalogRepository,
		professionalRepository,
		clientRepository,
		txMgr,
		log,
	)
	completeAppointmentUseCase := completeAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		clientRepository,
		txMgr,
		log,
	)
	commissionReportUseCase := commissionReportUC.NewUseCase(
		appointmentRepository,
		professionalRepository,
		catalogRepository,
		scheduleRepository,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	completeAppointment := completeAppointmentHandler.NewHandler(completeAppointmentUseCase, log)
	commissionReport := commissionReportHandler.NewHandler(commissionReportUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentsSvc, log)
	startAppointment := startAppointmentHandler.NewHandler(appointmentsSvc, log)
	addProductSale := addProductSaleHandler.NewHandler(appointmentsSvc, log)
	listShopAppointments := listShopAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	getClientLoyalty := getClientLoyaltyHandler.NewHandler(clientsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов мастера
	api.HandleFunc("/shops/{shopId}/professionals/{professionalId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Получение расписания салона
	api.HandleFunc("/shops/{shopId}/schedule",
		getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Удаление записи (освобождает слот)
	protected.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)

	// Перевод записи в работу
	protected.HandleFunc("/appointments/{appointmentId}/start", startAppointment.Handle).Methods(http.MethodPatch)

	// Завершение записи с расчетом и начислением баллов
	protected.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPatch)

	// Продажа товара к записи
	protected.HandleFunc("/appointments/{appointmentId}/products", addProductSale.Handle).Methods(http.MethodPost)

	// --- Управление салоном ---
	// Список записей салона за день
	protected.HandleFunc("/shops/{shopId}/appointments", listShopAppointments.Handle).Methods(http.MethodGet)

	// Отчет по комиссии мастера
	protected.HandleFunc("/shops/{shopId}/professionals/{professionalId}/commission-report",
		commissionReport.Handle).Methods(http.MethodGet)

	// Обновление расписания и конфигурации салона
	protected.HandleFunc("/shops/{shopId}/schedule", updateSchedule.Handle).Methods(http.MethodPut)

	// --- Клиенты ---
	// Баланс баллов лояльности клиента
	protected.HandleFunc("/clients/{clientId}/loyalty", getClientLoyalty.Handle).Methods(http.MethodGet)

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
