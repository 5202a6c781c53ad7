package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/twisthair/booking-api/internal/api/router"
	"github.com/twisthair/booking-api/internal/appointments"
	"github.com/twisthair/booking-api/internal/auth"
	"github.com/twisthair/booking-api/internal/availability"
	appconfig "github.com/twisthair/booking-api/internal/config"
	"github.com/twisthair/booking-api/internal/notify"
	"github.com/twisthair/booking-api/internal/observability/metrics"
	"github.com/twisthair/booking-api/internal/schedule"
	"github.com/twisthair/booking-api/internal/stats"
	"github.com/twisthair/booking-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	catalog, err := schedule.New(schedule.Options{Timezone: cfg.BookingTimezone})
	if err != nil {
		logger.Error("invalid booking timezone", "error", err)
		os.Exit(1)
	}

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, availability cache disabled", "error", err)
			redisClient = nil
		}
	}

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	apptRepo := appointments.NewPostgresRepository(pool, catalog)
	overrideStore := availability.NewPostgresStore(pool, catalog)
	view := availability.NewView(catalog, apptRepo, overrideStore, cfg.BookingHorizonWeeks)
	cache := availability.NewCache(redisClient, cfg.AvailabilityCacheTTL, bookingMetrics, logger)

	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	} else {
		emailSender = notify.NewStubEmailSender(logger)
	}
	notifier := notify.NewBookingNotifier(emailSender, catalog, logger)

	apptHandler := appointments.NewHandler(appointments.HandlerConfig{
		Repo:     apptRepo,
		Notifier: notifier,
		Cache:    cache,
		Metrics:  bookingMetrics,
		Logger:   logger,
	})
	availHandler := availability.NewHandler(availability.HandlerConfig{
		View:    view,
		Store:   overrideStore,
		Cache:   cache,
		Catalog: catalog,
		Metrics: bookingMetrics,
		Logger:  logger,
	})
	statsHandler := stats.NewHandler(stats.NewAggregator(apptRepo, catalog, nil), logger)
	authHandler := auth.NewHandler(auth.Config{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Secret:   cfg.AdminJWTSecret,
		TokenTTL: cfg.AdminTokenTTL,
		Logger:   logger,
	})

	r := router.New(&router.Config{
		Logger:              logger,
		AppointmentsHandler: apptHandler,
		AvailabilityHandler: availHandler,
		StatsHandler:        statsHandler,
		AuthHandler:         authHandler,
		AdminJWTSecret:      cfg.AdminJWTSecret,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
