package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/mediplan/booking-api/internal/config"
	"github.com/mediplan/booking-api/internal/handler"
	appointmentHandler "github.com/mediplan/booking-api/internal/handler/appointment"
	availabilityHandler "github.com/mediplan/booking-api/internal/handler/availability"
	evaluationHandler "github.com/mediplan/booking-api/internal/handler/evaluation"
	"github.com/mediplan/booking-api/internal/middleware"
	"github.com/mediplan/booking-api/internal/repository/postgres"
	"github.com/mediplan/booking-api/internal/router"
	appointmentService "github.com/mediplan/booking-api/internal/service/appointment"
	availabilityService "github.com/mediplan/booking-api/internal/service/availability"
	evaluationService "github.com/mediplan/booking-api/internal/service/evaluation"
	"github.com/mediplan/booking-api/pkg/logger"
	"github.com/mediplan/booking-api/pkg/messaging/redis"
	"github.com/mediplan/booking-api/pkg/metrics"
	"github.com/mediplan/booking-api/pkg/worker"
)

func main() {
	log := logger.New(nil)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	m := metrics.New("booking_api")

	userRepo := postgres.NewUserRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	evaluationRepo := postgres.NewEvaluationRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	checker := appointmentService.NewConflictChecker(
		appointmentRepo,
		availabilityRepo,
		cfg.Scheduling.SlotDuration,
		cfg.Scheduling.EnforceWorkingHours,
		log.Zerolog(),
	)
	appointmentSvc := appointmentService.NewService(appointmentRepo, userRepo, checker, m, log.Zerolog())
	availabilitySvc := availabilityService.NewService(availabilityRepo, userRepo, cfg.Scheduling.AvailabilityCacheTTL)
	evaluationSvc := evaluationService.NewService(evaluationRepo, appointmentRepo, m, log.Zerolog())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	h := handler.NewHandler()
	appointmentH := appointmentHandler.NewHandler(appointmentSvc)
	availabilityH := availabilityHandler.NewHandler(availabilitySvc)
	evaluationH := evaluationHandler.NewHandler(evaluationSvc)

	r := router.NewRouter(
		authMiddleware,
		appointmentH,
		availabilityH,
		evaluationH,
		h,
		router.Config{
			RateLimit:      rate.Limit(cfg.Server.RateLimitRPS),
			RateBurst:      cfg.Server.RateLimitBurst,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "booking_api_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	broker, err := redis.NewBroker(redis.Config{URL: cfg.Redis.URL}, log.Zerolog())
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, log, m)

	processorCtx, stopProcessor := context.WithCancel(context.Background())
	defer stopProcessor()
	go outboxProcessor.Start(processorCtx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()
	log.Info("server started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	stopProcessor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}
