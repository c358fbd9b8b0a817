// Package sisterhood предоставляет маршруты для основного приложения.
package sisterhood

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/manup-inc/sisterhood-backend/internal/config"
	"github.com/manup-inc/sisterhood-backend/internal/http/handlers/auth/login"
	"github.com/manup-inc/sisterhood-backend/internal/http/handlers/signup/create"
	"github.com/manup-inc/sisterhood-backend/internal/http/handlers/signup/health"
	"github.com/manup-inc/sisterhood-backend/internal/http/handlers/signup/list"
	"github.com/manup-inc/sisterhood-backend/internal/http/handlers/signup/read"
	"github.com/manup-inc/sisterhood-backend/internal/http/handlers/signup/remove"
	"github.com/manup-inc/sisterhood-backend/internal/http/handlers/signup/submit"
	"github.com/manup-inc/sisterhood-backend/internal/http/handlers/signup/update"
	"github.com/manup-inc/sisterhood-backend/internal/http/middlewarectx"
	"github.com/manup-inc/sisterhood-backend/internal/lib/jwt"
	signupservice "github.com/manup-inc/sisterhood-backend/internal/services/signup"
)

// productionOrigins — источники, которым разрешён CORS в production.
var productionOrigins = []string{"https://as12711.github.io"}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	signupService *signupservice.SignupService, tokenMaker jwt.Maker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	// За доверенным прокси адрес клиента берется из заголовков,
	// иначе лимитер видел бы адрес балансировщика.
	if cfg.HTTPServer.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(corsMiddleware(cfg.Env))

	limiterStore := middlewarectx.NewLimiterStore(cfg.RateLimit)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/login", login.New(logger, cfg.AdminAuth, tokenMaker).ServeHTTP)

		r.Route("/sisterhood", func(r chi.Router) {
			// Публичная форма, частота ограничена по адресу клиента
			r.With(middlewarectx.RateLimitMiddleware(limiterStore, logger)).
				Post("/signup", submit.New(logger, signupService).ServeHTTP)

			// Админский контур
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(tokenMaker, logger))
				r.Get("/signups", list.New(logger, signupService).ServeHTTP)
				r.Post("/signups", create.New(logger, signupService).ServeHTTP)
				r.Get("/signups/{id}", read.New(logger, signupService).ServeHTTP)
				r.Put("/signups/{id}", update.New(logger, signupService).ServeHTTP)
				r.Delete("/signups/{id}", remove.New(logger, signupService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

// corsMiddleware настраивает CORS: в production — закрытый список источников,
// в остальных окружениях — разрешено всё для локальной разработки.
func corsMiddleware(env string) func(http.Handler) http.Handler {
	allowedOrigins := []string{"*"}
	if env == "production" {
		allowedOrigins = productionOrigins
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
}
