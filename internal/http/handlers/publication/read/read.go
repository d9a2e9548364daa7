// Package read реализует HTTP-обработчик получения издания по ID.
package read

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

// Handler обрабатывает запросы на получение издания по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения издания.
type Service interface {
	GetByID(ctx context.Context, id int64) (*models.Publication, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение издания по ID.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.publication.read"

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

	res, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		log.Error("failed to read publication", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("success to read publication", slog.Int64("id", res.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"publication": res,
	}))
}
