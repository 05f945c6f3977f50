package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nannybook-service/internal/calendar"
	"nannybook-service/internal/clock"
	"nannybook-service/internal/config"
	"nannybook-service/internal/database"
	"nannybook-service/internal/handlers"
	"nannybook-service/internal/logger"
	"nannybook-service/internal/middleware"
	"nannybook-service/internal/server"
	"nannybook-service/internal/service"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsProduction())
	log := logger.Get()
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatal("schema setup failed", zap.Error(err))
	}

	sysClock := clock.System{}

	notifier := &service.BookingNotifier{
		Pool:        pool,
		AdminEmails: cfg.AdminEmailList(),
		Log:         log,
	}
	if mailer := service.NewSMTPMailer(cfg); mailer != nil {
		notifier.Mailer = mailer
	}

	h := &handlers.Handlers{
		Pool:         pool,
		Search:       &service.SearchService{DB: pool, Clock: sysClock},
		Bookings:     &service.BookingService{Pool: pool, Notifier: notifier, Log: log},
		Bulk:         &service.BulkService{Pool: pool, Options: service.DefaultBulkOptions()},
		Availability: &service.AvailabilityService{Pool: pool},
		Reviews:      &service.ReviewService{Pool: pool, Clock: sysClock},
		Calendar:     calendar.New(cfg),
		Authorizer: middleware.KeyOrJWTAuthorizer{
			AdminKey:  cfg.AdminAPIKey,
			JWTSecret: cfg.JWTSecret,
		},
		Log: log,
	}

	if err := server.Run(h.Routes(), cfg.AppPort, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
