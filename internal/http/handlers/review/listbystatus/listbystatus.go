// Package listbystatus реализует HTTP-обработчик очереди модерации.
//
// Handler возвращает отзывы в заданном статусе. Без параметра status
// отдается очередь PENDING — основной сценарий модератора.
package listbystatus

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/readsphere/readsphere-backend/internal/http/response"
	"github.com/readsphere/readsphere-backend/internal/lib/sl"
	"github.com/readsphere/readsphere-backend/internal/models"
)

// Handler обрабатывает запросы на отзывы в заданном статусе модерации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения отзывов по статусу.
type Service interface {
	ListByStatus(ctx context.Context, status models.ReviewStatus) ([]*models.Review, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на очередь модерации.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.listbystatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	status := models.ReviewStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.ReviewPending
	}

	res, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		log.Error("failed to list reviews", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("list reviews", slog.String("status", string(status)), "count", len(res))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(res),
		"reviews":    res,
	}))
}
