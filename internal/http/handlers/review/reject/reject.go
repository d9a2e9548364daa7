// Package reject реализует HTTP-обработчик отклонения отзыва модератором.
package reject

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/readsphere/readsphere-backend/internal/http/response"
	"github.com/readsphere/readsphere-backend/internal/lib/sl"
	"github.com/readsphere/readsphere-backend/internal/models"
)

// Handler управляет HTTP-запросами на отклонение отзывов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики модерации отзыва.
type Service interface {
	Reject(ctx context.Context, reviewID int64, reason string) (*models.Review, error)
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
// @Summary Отклонить отзыв
// @Description Отклоняет отзыв в статусе PENDING с указанием причины. Баллы автору не начисляются.
// @Tags Moderation
// @Accept  json
// @Produce  json
// @Param id path int true "ID отзыва"
// @Param request body models.RejectRequest true "Причина отклонения"
// @Success 200 {object} map[string]any "Отзыв отклонен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 404 {object} response.ErrorResponse "Отзыв не найден"
// @Failure 409 {object} response.ErrorResponse "Отзыв уже рассмотрен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/reviews/{id}/reject [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.reject"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	var req models.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	review, err := h.service.Reject(r.Context(), id, req.Reason)
	if err != nil {
		log.Error("failed to reject review", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("review rejected", slog.Int64("id", review.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"review": review,
	}))
}
