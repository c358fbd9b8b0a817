// Package sisterhood собирает приложение: хранилище, кеш, уведомления,
// сервис заявок и HTTP-сервер с маршрутами.
package sisterhood

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/manup-inc/sisterhood-backend/internal/cache"
	"github.com/manup-inc/sisterhood-backend/internal/config"
	"github.com/manup-inc/sisterhood-backend/internal/lib/jwt"
	"github.com/manup-inc/sisterhood-backend/internal/lib/rabbitmq"
	"github.com/manup-inc/sisterhood-backend/internal/lib/sl"
	"github.com/manup-inc/sisterhood-backend/internal/migrations"
	signupservice "github.com/manup-inc/sisterhood-backend/internal/services/signup"
	"github.com/manup-inc/sisterhood-backend/internal/storage/repository"
)

type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	publisher *rabbitmq.Publisher
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	// Уведомления опциональны: без rabbitmq сервис работает как обычно.
	var publisher *rabbitmq.Publisher
	if cfg.RabbitMQConnection.URL != "" {
		publisher, err = rabbitmq.New(cfg.RabbitMQConnection.URL, cfg.RabbitMQConnection.QueueName)
		if err != nil {
			logger.Warn("rabbitmq unavailable, notifications disabled", sl.Err(err))
		}
	}

	tokenMaker := jwt.NewJWTMaker(cfg.AdminAuth.JWTSecretKey, cfg.AdminAuth.TokenTTL)

	var notifier signupservice.Notifier
	if publisher != nil {
		notifier = publisher
	}
	signupService := signupservice.NewSignupService(db, cacheRedis, notifier, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, signupService, tokenMaker)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		publisher: publisher,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.publisher != nil {
			_ = a.publisher.Close()
		}
		_ = a.db.DB.Close()
		return err
	}
}
