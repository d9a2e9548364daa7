// Package readsphere предоставляет маршруты для основного приложения.
package readsphere

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/readsphere/readsphere-backend/internal/http/handlers/auth/login"
	"github.com/readsphere/readsphere-backend/internal/http/handlers/auth/register"
	"github.com/readsphere/readsphere-backend/internal/http/handlers/health"
	publicationlist "github.com/readsphere/readsphere-backend/internal/http/handlers/publication/list"
	publicationread "github.com/readsphere/readsphere-backend/internal/http/handlers/publication/read"
	"github.com/readsphere/readsphere-backend/internal/http/handlers/review/approve"
	reviewlist "github.com/readsphere/readsphere-backend/internal/http/handlers/review/list"
	"github.com/readsphere/readsphere-backend/internal/http/handlers/review/listbystatus"
	"github.com/readsphere/readsphere-backend/internal/http/handlers/review/listmine"
	"github.com/readsphere/readsphere-backend/internal/http/handlers/review/reject"
	"github.com/readsphere/readsphere-backend/internal/http/handlers/review/submit"
	"github.com/readsphere/readsphere-backend/internal/http/handlers/subscription/cancel"
	"github.com/readsphere/readsphere-backend/internal/http/handlers/subscription/list"
	"github.com/readsphere/readsphere-backend/internal/http/handlers/subscription/purchase"
	"github.com/readsphere/readsphere-backend/internal/http/handlers/user/profile"
	"github.com/readsphere/readsphere-backend/internal/http/handlers/user/profileupdate"
	"github.com/readsphere/readsphere-backend/internal/http/middlewarectx"
	"github.com/readsphere/readsphere-backend/internal/lib/jwt"
	authservice "github.com/readsphere/readsphere-backend/internal/services/auth"
	publicationservice "github.com/readsphere/readsphere-backend/internal/services/publication"
	reviewservice "github.com/readsphere/readsphere-backend/internal/services/review"
	subservice "github.com/readsphere/readsphere-backend/internal/services/subscription"
	userservice "github.com/readsphere/readsphere-backend/internal/services/user"
	"github.com/readsphere/readsphere-backend/internal/storage"
)

// Services объединяет зависимости маршрутов приложения.
type Services struct {
	Auth         *authservice.AuthService
	Catalog      *publicationservice.CatalogService
	Subscription *subservice.SubscriptionService
	Review       *reviewservice.ReviewService
	Profile      *userservice.UserService
	Storage      *storage.Storage
	JWTMaker     jwt.Maker
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/publications", publicationlist.New(logger, s.Catalog).ServeHTTP)
		r.Get("/publications/{id}", publicationread.New(logger, s.Catalog).ServeHTTP)
		r.Get("/publications/{id}/reviews", reviewlist.New(logger, s.Review).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.JWTMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/subscriptions", purchase.New(logger, s.Subscription).ServeHTTP)
			r.Get("/subscriptions", list.New(logger, s.Subscription).ServeHTTP)
			r.Post("/subscriptions/{id}/cancel", cancel.New(logger, s.Subscription).ServeHTTP)
			r.Post("/reviews", submit.New(logger, s.Review).ServeHTTP)
			r.Get("/reviews/my", listmine.New(logger, s.Review).ServeHTTP)
			r.Get("/profile", profile.New(logger, s.Profile).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, s.Profile).ServeHTTP)

			// Модерация доступна только администраторам
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole("admin", logger))
				r.Get("/admin/reviews", listbystatus.New(logger, s.Review).ServeHTTP)
				r.Post("/admin/reviews/{id}/approve", approve.New(logger, s.Review).ServeHTTP)
				r.Post("/admin/reviews/{id}/reject", reject.New(logger, s.Review).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, s.Storage).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
