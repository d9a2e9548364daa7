// Package submit реализует HTTP-обработчик отправки отзыва на модерацию.
//
// Handler принимает JSON-запрос с текстом отзыва, валидирует его, извлекает
// имя пользователя из контекста и вызывает бизнес-логику отправки. Отзыв
// проходит проверки окна подачи и минимального объема текста на стороне
// сервиса и попадает в очередь модерации.
package submit

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

// Handler управляет HTTP-запросами на отправку отзывов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отправки отзыва.
type Service interface {
	Submit(ctx context.Context, username string, req models.ReviewRequest) (*models.Review, error)
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
// @Summary Отправить отзыв
// @Description Отправляет отзыв о выпуске издания на модерацию. Выпуск не старше 30 дней, текст от 50 слов и 5 предложений.
// @Tags Reviews
// @Accept  json
// @Produce  json
// @Param request body models.ReviewRequest true "Текст отзыва и дата выпуска"
// @Success 200 {object} map[string]any "Отзыв принят на модерацию"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Подписка принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 422 {object} response.ErrorResponse "Отзыв не прошел проверки"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reviews [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Int64("subscription_id", req.SubscriptionID))

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

	review, err := h.service.Submit(r.Context(), username, req)
	if err != nil {
		log.Error("failed to submit review", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("review submitted", slog.Int64("id", review.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"review": review,
	}))
}
