package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"passin/config"
	emailadapter "passin/internal/adapters/email"
	deliveryhttp "passin/internal/delivery/http"
	"passin/internal/delivery/http/controllers"
	"passin/internal/repository/postgres"
	"passin/internal/services"
	"passin/internal/slug"
	"passin/internal/validation"
)

// @title pass.in API
// @version 1.0
// @description Event registration API: create events and look them up by id or slug.
// @host localhost:3333
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl, postgres.PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    25,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	mailer, err := emailadapter.NewMailer(logger, emailadapter.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: emailadapter.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		return err
	}
	renderer, err := emailadapter.NewTemplateRenderer()
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, renderer, logger)
	notifier := services.NewEventNotifier(emailService, cfg.EventNotifyEmails)

	eventRepo := postgres.NewEventRepository(db)
	eventService := services.NewEventService(eventRepo, slug.Generate, notifier, logger, cfg.RequestTimeout)

	createEventSchema, err := validation.Load(validation.CreateEventSchema)
	if err != nil {
		return err
	}
	eventController := controllers.NewEventController(logger, eventService, createEventSchema)
	healthController := controllers.NewHealthController(logger, db)

	router := deliveryhttp.NewRouter(eventController, healthController)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           deliveryhttp.NewHandler(logger, cfg.CORSAllowedOrigins, router),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server running", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
