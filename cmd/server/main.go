// @title Event Admission API
// @version 1.0
// @description Event lifecycle and participation request admission.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventadmission/config"
	"eventadmission/internal/adapters/auth"
	"eventadmission/internal/adapters/broker"
	"eventadmission/internal/adapters/email"
	"eventadmission/internal/adapters/stats"
	deliveryhttp "eventadmission/internal/delivery/http"
	"eventadmission/internal/delivery/http/controllers"
	"eventadmission/internal/delivery/http/middleware"
	"eventadmission/internal/domain"
	"eventadmission/internal/repository/postgres"
	"eventadmission/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	cancelPing()
	if err != nil {
		log.Fatalf("database ping: %v", err)
	}
	logger.Info("connected to postgres")

	eventRepo := postgres.NewEventRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	userRepo := postgres.NewUserRepository(db)
	uow := postgres.NewUnitOfWork(db)

	statsClient := stats.NewClient(cfg.Stats.ServerURL, &http.Client{Timeout: 3 * time.Second}, stats.DefaultApp)
	rdb := config.NewRedisClient(cfg.Redis, logger)
	if rdb != nil {
		defer rdb.Close()
	}
	views := stats.NewCachedViewCounter(statsClient, rdb, cfg.Stats.CacheTTL, logger)

	publisher := newPublisher(cfg.Broker, logger)
	if closer, ok := publisher.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		log.Fatalf("email templates: %v", err)
	}
	notifications := services.NewNotificationService(mailer, renderer, logger)

	eventSvc := services.NewEventService(eventRepo, uow, views, logger, cfg.RequestTimeout)
	requestSvc := services.NewRequestService(eventRepo, requestRepo, userRepo, uow, publisher, notifications, logger, cfg.RequestTimeout)

	mux := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		Verifier:  auth.NewJWTVerifier(cfg.JWTSecret),
		AdminRole: cfg.AdminRole,
		Logger:    logger,
	},
		controllers.NewEventController(logger, eventSvc, statsClient),
		controllers.NewRequestController(logger, requestSvc),
	)
	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORSOrigins, handler)
	handler = middleware.Recoverer(logger, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		return
	}
	if w, ok := requestSvc.(interface{ Wait(context.Context) error }); ok {
		if err := w.Wait(shutdownCtx); err != nil {
			logger.Warn("pending notification emails dropped", "err", err)
		}
	}
	logger.Info("server stopped")
}

// newPublisher connects to RabbitMQ, falling back to a logging publisher
// when no broker is configured or it cannot be reached.
func newPublisher(cfg config.BrokerConfig, logger *slog.Logger) domain.StatusPublisher {
	if cfg.URL == "" {
		return broker.NewNoopPublisher(logger)
	}
	p, err := broker.NewPublisher(cfg.URL)
	if err != nil {
		logger.Warn("rabbitmq unavailable, status changes will not be published", "err", err)
		return broker.NewNoopPublisher(logger)
	}
	return p
}
