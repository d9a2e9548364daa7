// Package purchase реализует HTTP-обработчик оформления подписки на издание.
//
// Handler принимает JSON-запрос со способом оплаты, валидирует его, извлекает
// имя пользователя из контекста, вызывает бизнес-логику покупки и возвращает
// созданную подписку в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package purchase

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/readsphere/readsphere-backend/internal/http/middlewarectx"
	"github.com/readsphere/readsphere-backend/internal/http/response"
	"github.com/readsphere/readsphere-backend/internal/lib/sl"
	"github.com/readsphere/readsphere-backend/internal/models"
)

// Handler управляет HTTP-запросами на оформление подписок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики покупки подписки.
type Service interface {
	Purchase(ctx context.Context, username string, req models.PurchaseRequest) (*models.UserSubscription, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформить подписку
// @Description Оформляет годовую подписку на издание с оплатой картой, баллами или смешанно. Возвращает созданную подписку.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body models.PurchaseRequest true "Параметры покупки"
// @Success 200 {object} map[string]any "Подписка оформлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 402 {object} response.ErrorResponse "Недостаточно баллов"
// @Failure 404 {object} response.ErrorResponse "Издание не найдено"
// @Failure 409 {object} response.ErrorResponse "Не удалось выделить номер подписки"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.purchase"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sub, err := h.service.Purchase(r.Context(), username, req)
	if err != nil {
		log.Error("failed to purchase subscription", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("subscription purchased",
		slog.Int64("id", sub.ID),
		slog.String("subscription_number", sub.SubscriptionNumber))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
	}))
}
