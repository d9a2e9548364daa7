// Package readsphere собирает основное приложение: хранилище, кеш, брокер
// событий, сервисы и HTTP-сервер с маршрутами.
package readsphere

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/readsphere/readsphere-backend/internal/cache"
	"github.com/readsphere/readsphere-backend/internal/config"
	"github.com/readsphere/readsphere-backend/internal/lib/jwt"
	"github.com/readsphere/readsphere-backend/internal/lib/sl"
	"github.com/readsphere/readsphere-backend/internal/migrations"
	"github.com/readsphere/readsphere-backend/internal/rabbitmq"
	authservice "github.com/readsphere/readsphere-backend/internal/services/auth"
	pointsservice "github.com/readsphere/readsphere-backend/internal/services/points"
	publicationservice "github.com/readsphere/readsphere-backend/internal/services/publication"
	reviewservice "github.com/readsphere/readsphere-backend/internal/services/review"
	subservice "github.com/readsphere/readsphere-backend/internal/services/subscription"
	userservice "github.com/readsphere/readsphere-backend/internal/services/user"
	"github.com/readsphere/readsphere-backend/internal/storage"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	rabbit *rabbitmq.Publisher
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
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

	// Брокер событий необязателен: без него покупки и модерация работают,
	// домен просто не публикует события.
	var publisher *rabbitmq.Publisher
	var subEvents subservice.EventPublisher
	var reviewEvents reviewservice.EventPublisher
	if cfg.RabbitConnection != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitConnection, 5, 3*time.Second)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn)
		if err != nil {
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(ch)
		subEvents = publisher
		reviewEvents = publisher
	} else {
		logger.Warn("rabbit connection is not configured, domain events are disabled")
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	ledger := pointsservice.NewLedger(logger)

	authService := authservice.NewAuthService(db, jwtMaker)
	catalogService := publicationservice.NewCatalogService(db, cacheRedis, logger)
	subscriptionService := subservice.NewSubscriptionService(db, ledger, subEvents, logger)
	reviewService := reviewservice.NewReviewService(db, ledger, reviewEvents, logger)
	profileService := userservice.NewUserService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Catalog:      catalogService,
		Subscription: subscriptionService,
		Review:       reviewService,
		Profile:      profileService,
		Storage:      db,
		JWTMaker:     jwtMaker,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		rabbit: publisher,
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
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		return err
	}
}
