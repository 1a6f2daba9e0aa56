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

	changeStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/change_status"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	createScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_schedule"
	deleteScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_schedule"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAppointmentStatusesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment_statuses"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getDoctorAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_doctor_appointments"
	getDoctorScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_doctor_schedule"
	getPatientAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_patient_appointments"
	healthHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/health"
	updateScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	redislock "github.com/m04kA/SMC-AppointmentService/internal/infra/lock/redis"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	schedulesService "github.com/m04kA/SMC-AppointmentService/internal/service/schedules"
	changeStatusUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_status"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/slotlock"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Без метрик обёртка работает как прозрачный прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)

	// Блокировка слота: in-process или Redis
	healthDeps := map[string]healthHandler.Pinger{"postgres": wrappedDB}

	var locker createBookingUC.SlotLocker
	switch cfg.Locking.Backend {
	case config.LockBackendRedis:
		redisClient, err := redislock.NewClient(context.Background(), redislock.ClientConfig{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()

		locker = redislock.New(redisClient, redislock.Options{
			TTL:         cfg.Locking.TTL(),
			WaitTimeout: cfg.Locking.WaitTimeout(),
		}, log)
		healthDeps["redis"] = healthHandler.PingFunc(func(ctx context.Context) error {
			return redisPing(ctx, redisClient)
		})
		log.Info("Slot locking: redis (addr=%s, wait=%s, ttl=%s)",
			cfg.Redis.Addr, cfg.Locking.WaitTimeout(), cfg.Locking.TTL())
	default:
		locker = slotlock.New(cfg.Locking.WaitTimeout())
		log.Info("Slot locking: local (wait=%s)", cfg.Locking.WaitTimeout())
	}

	clinicLocation := cfg.Booking.Location()

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(appointmentRepository, log)
	scheduleSvc := schedulesService.NewService(scheduleRepository, appointmentRepository, txMgr, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		locker,
		txMgr,
		metricsCollector,
		log,
		createBookingUC.Options{
			MaxAdvanceDays: cfg.Booking.MaxAdvanceDays,
			Location:       clinicLocation,
		},
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		clinicLocation,
		log,
	)

	changeStatusUseCase := changeStatusUC.NewUseCase(
		appointmentRepository,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	changeStatus := changeStatusHandler.NewHandler(changeStatusUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getDoctorAppointments := getDoctorAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAppointmentStatuses := getAppointmentStatusesHandler.NewHandler(appointmentSvc)
	createSchedule := createScheduleHandler.NewHandler(scheduleSvc, log)
	getDoctorSchedule := getDoctorScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	deleteSchedule := deleteScheduleHandler.NewHandler(scheduleSvc, log)
	health := healthHandler.NewHandler(healthDeps, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты
	api.HandleFunc("/schedules/{scheduleId}/available-slots", getAvailableSlots.HandleBySchedule).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/available-slots", getAvailableSlots.HandleByDoctor).Methods(http.MethodGet)

	// Расписание врача
	api.HandleFunc("/doctors/{doctorId}/schedule", getDoctorSchedule.Handle).Methods(http.MethodGet)

	// Каталог статусов
	api.HandleFunc("/appointment-statuses", getAppointmentStatuses.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/status", changeStatus.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/patients/{patientId}/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{doctorId}/appointments", getDoctorAppointments.Handle).Methods(http.MethodGet)

	// --- Расписания (только врач-владелец) ---
	protected.HandleFunc("/schedules", createSchedule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/schedules/{scheduleId}", updateSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/schedules/{scheduleId}", deleteSchedule.Handle).Methods(http.MethodDelete)

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
	close(stopMetricsCh)

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

func redisPing(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
