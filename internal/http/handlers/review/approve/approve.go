// Package approve реализует HTTP-обработчик одобрения отзыва модератором.
package approve

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/readsphere/readsphere-backend/internal/http/response"
	"github.com/readsphere/readsphere-backend/internal/lib/sl"
	"github.com/readsphere/readsphere-backend/internal/models"
)

// Handler управляет HTTP-запросами на одобрение отзывов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики модерации отзыва.
type Service interface {
	Approve(ctx context.Context, reviewID int64) (*models.Review, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Одобрить отзыв
// @Description Одобряет отзыв в статусе PENDING и начисляет автору 200 баллов.
// @Tags Moderation
// @Produce  json
// @Param id path int true "ID отзыва"
// @Success 200 {object} map[string]any "Отзыв одобрен"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 404 {object} response.ErrorResponse "Отзыв не найден"
// @Failure 409 {object} response.ErrorResponse "Отзыв уже рассмотрен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/reviews/{id}/approve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.approve"

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

	review, err := h.service.Approve(r.Context(), id)
	if err != nil {
		log.Error("failed to approve review", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("review approved", slog.Int64("id", review.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"review": review,
	}))
}
