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

	bookingSessionHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/booking_session"
	cancelAppointmentHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/create_appointment"
	createBarberHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/create_barber"
	createScheduleHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/create_schedule"
	createServiceHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/create_service"
	deleteScheduleHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/delete_schedule"
	getAppointmentHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_appointment"
	getBarberHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_barber"
	getBarberAppointmentsHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_barber_appointments"
	getCandidateRunsHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_candidate_runs"
	getMeHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_me"
	getScheduleHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_schedule"
	getServiceHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_service"
	getUserAppointmentsHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_user_appointments"
	listBarbersHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/list_barbers"
	listMessagesHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/list_messages"
	listSchedulesHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/list_schedules"
	listServicesHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/list_services"
	listThreadsHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/list_threads"
	sendMessageHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/send_message"
	startThreadHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/start_thread"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/update_appointment_status"
	updateScheduleHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/update_schedule"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/auth"
	"github.com/m04kA/SMC-BarberService/internal/config"
	"github.com/m04kA/SMC-BarberService/internal/domain"
	sessionStore "github.com/m04kA/SMC-BarberService/internal/infra/cache/session"
	"github.com/m04kA/SMC-BarberService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/appointment"
	barberRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/barber"
	catalogRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/catalog"
	messagingRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/messaging"
	scheduleRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedule"
	identityClient "github.com/m04kA/SMC-BarberService/internal/integrations/identity"
	appointmentsService "github.com/m04kA/SMC-BarberService/internal/service/appointments"
	barbersService "github.com/m04kA/SMC-BarberService/internal/service/barbers"
	catalogService "github.com/m04kA/SMC-BarberService/internal/service/catalog"
	messagingService "github.com/m04kA/SMC-BarberService/internal/service/messaging"
	schedulesService "github.com/m04kA/SMC-BarberService/internal/service/schedules"
	usersService "github.com/m04kA/SMC-BarberService/internal/service/users"
	"github.com/m04kA/SMC-BarberService/internal/slotmatcher"
	bookingSessionUC "github.com/m04kA/SMC-BarberService/internal/usecase/booking_session"
	createAppointmentUC "github.com/m04kA/SMC-BarberService/internal/usecase/create_appointment"
	getCandidateRunsUC "github.com/m04kA/SMC-BarberService/internal/usecase/get_candidate_runs"
	"github.com/m04kA/SMC-BarberService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberService/pkg/logger"
	"github.com/m04kA/SMC-BarberService/pkg/metrics"
	"github.com/m04kA/SMC-BarberService/pkg/txmanager"
)

// eventPublisher публикатор доменных событий (RabbitMQ или заглушка)
type eventPublisher interface {
	PublishAppointmentCreated(ctx context.Context, appointment *domain.Appointment) error
	PublishAppointmentCancelled(ctx context.Context, appointment *domain.Appointment) error
	Close() error
}

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

	log.Info("Starting SMC-BarberService...")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}
	policy, err := slotmatcher.ParseDurationPolicy(cfg.Booking.DurationPolicy)
	if err != nil {
		log.Fatal("Invalid duration policy: %v", err)
	}
	log.Info("Booking settings: timezone=%s, advance_booking_days=%d, duration_policy=%s",
		cfg.Booking.Timezone, cfg.Booking.AdvanceBookingDays, cfg.Booking.DurationPolicy)

	// Инициализируем метрики (если включены)
	// Выключенные метрики - nil коллектор, все вызовы становятся no-op
	var metricsCollector *metrics.Metrics
	stopCh := make(chan struct{})

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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Подключаемся к Redis (сессии записи)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
	}
	pingCancel()
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	// Публикация событий
	var publisher eventPublisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		amqpPublisher, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to event broker: %v", err)
		}
		publisher = amqpPublisher
		log.Info("Event publishing enabled (exchange=%s)", cfg.Events.Exchange)
	}
	defer publisher.Close()

	// Проверка токенов и identity provider
	verifier, err := auth.NewVerifierFromConfig(cfg.Auth)
	if err != nil {
		log.Fatal("Failed to initialize token verifier: %v", err)
	}
	identity := identityClient.NewClient(
		cfg.Identity.URL,
		time.Duration(cfg.Identity.Timeout)*time.Second,
		log,
	)
	log.Info("Identity client initialized (url=%s, timeout=%ds)", cfg.Identity.URL, cfg.Identity.Timeout)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	barberRepository := barberRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	messagingRepository := messagingRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	sessions := sessionStore.NewStore(redisClient, cfg.Booking.SessionTTL(), location)

	// Инициализируем сервисы
	catalogSvc := catalogService.NewService(catalogRepository, log)
	barbersSvc := barbersService.NewService(barberRepository, log)
	schedulesSvc := schedulesService.NewService(scheduleRepository, barberRepository, txMgr, location, log)
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, scheduleRepository, txMgr, publisher, metricsCollector, log)
	messagingSvc := messagingService.NewService(messagingRepository, log)
	usersSvc := usersService.NewService(identity, log)

	// Инициализируем use cases
	getCandidateRunsUseCase := getCandidateRunsUC.NewUseCase(
		barberRepository,
		catalogRepository,
		scheduleRepository,
		policy,
		cfg.Booking.AdvanceBookingDays,
		location,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		barberRepository,
		catalogRepository,
		scheduleRepository,
		txMgr,
		publisher,
		metricsCollector,
		policy,
		cfg.Booking.AdvanceBookingDays,
		location,
		log,
	)

	bookingSessionUseCase := bookingSessionUC.NewUseCase(
		sessions,
		barberRepository,
		catalogRepository,
		scheduleRepository,
		createAppointmentUseCase,
		metricsCollector,
		policy,
		cfg.Booking.AdvanceBookingDays,
		location,
		log,
	)

	// Инициализируем handlers
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getService := getServiceHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)

	listBarbers := listBarbersHandler.NewHandler(barbersSvc, log)
	getBarber := getBarberHandler.NewHandler(barbersSvc, log)
	createBarber := createBarberHandler.NewHandler(barbersSvc, log)
	getCandidateRuns := getCandidateRunsHandler.NewHandler(getCandidateRunsUseCase, location, log)
	getBarberAppointments := getBarberAppointmentsHandler.NewHandler(appointmentsSvc, log)

	listSchedules := listSchedulesHandler.NewHandler(schedulesSvc, log)
	getSchedule := getScheduleHandler.NewHandler(schedulesSvc, log)
	createSchedule := createScheduleHandler.NewHandler(schedulesSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(schedulesSvc, log)
	deleteSchedule := deleteScheduleHandler.NewHandler(schedulesSvc, log)

	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, location, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentsSvc, log)

	bookingSession := bookingSessionHandler.NewHandler(bookingSessionUseCase, location, log)

	listThreads := listThreadsHandler.NewHandler(messagingSvc, log)
	startThread := startThreadHandler.NewHandler(messagingSvc, log)
	listMessages := listMessagesHandler.NewHandler(messagingSvc, log)
	sendMessage := sendMessageHandler.NewHandler(messagingSvc, log)

	getMe := getMeHandler.NewHandler(usersSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		go limiter.Cleanup(time.Minute, stopCh)
		r.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// --- Каталог и барберы ---
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}", getService.Handle).Methods(http.MethodGet)
	api.HandleFunc("/barbers", listBarbers.Handle).Methods(http.MethodGet)
	api.HandleFunc("/barbers/{barberId}", getBarber.Handle).Methods(http.MethodGet)

	// Подбор серий слотов под выбранные услуги
	api.HandleFunc("/barbers/{barberId}/candidate-runs", getCandidateRuns.Handle).Methods(http.MethodGet)

	// --- Расписания ---
	api.HandleFunc("/schedules", listSchedules.Handle).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{scheduleId}", getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(verifier, log))

	// --- Профиль ---
	protected.HandleFunc("/users/me", getMe.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/me/appointments", getUserAppointments.Handle).Methods(http.MethodGet)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// --- Сессия записи (пошаговый сценарий) ---
	protected.HandleFunc("/booking-sessions", bookingSession.Start).Methods(http.MethodPost)
	protected.HandleFunc("/booking-sessions/{sessionId}", bookingSession.Get).Methods(http.MethodGet)
	protected.HandleFunc("/booking-sessions/{sessionId}/date", bookingSession.ChooseDate).Methods(http.MethodPut)
	protected.HandleFunc("/booking-sessions/{sessionId}/barber", bookingSession.ChooseBarber).Methods(http.MethodPut)
	protected.HandleFunc("/booking-sessions/{sessionId}/services", bookingSession.ChooseServices).Methods(http.MethodPut)
	protected.HandleFunc("/booking-sessions/{sessionId}/slots", bookingSession.SelectSlots).Methods(http.MethodPut)
	protected.HandleFunc("/booking-sessions/{sessionId}/submit", bookingSession.Submit).Methods(http.MethodPost)

	// --- Переписка ---
	protected.HandleFunc("/threads", listThreads.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/threads", startThread.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/threads/{threadId}/messages", listMessages.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/threads/{threadId}/messages", sendMessage.Handle).Methods(http.MethodPost)

	// ============================================================
	// STAFF ROUTES (барберы и администраторы)
	// ============================================================

	staff := protected.PathPrefix("").Subrouter()
	staff.Use(middleware.RequireRole(domain.RoleBarber, domain.RoleAdmin))

	staff.HandleFunc("/barbers/{barberId}/appointments", getBarberAppointments.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	staff.HandleFunc("/schedules", createSchedule.Handle).Methods(http.MethodPost)
	staff.HandleFunc("/schedules/{scheduleId}", updateSchedule.Handle).Methods(http.MethodPut)
	staff.HandleFunc("/schedules/{scheduleId}", deleteSchedule.Handle).Methods(http.MethodDelete)

	// ============================================================
	// ADMIN ROUTES
	// ============================================================

	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireRole(domain.RoleAdmin))

	admin.HandleFunc("/services", createService.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/barbers", createBarber.Handle).Methods(http.MethodPost)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи (метрики пула, очистка rate limiter)
	close(stopCh)

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
