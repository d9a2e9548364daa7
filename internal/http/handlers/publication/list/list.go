// Package list реализует HTTP-обработчик каталога изданий.
//
// Handler поддерживает фильтрацию по типу издания, полнотекстовый поиск по
// названию и описанию, а также выборку рекомендуемых изданий.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/readsphere/readsphere-backend/internal/http/response"
	"github.com/readsphere/readsphere-backend/internal/lib/sl"
	"github.com/readsphere/readsphere-backend/internal/models"
)

// Handler обрабатывает запросы на список изданий каталога.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	List(ctx context.Context, pubType, search string, featured bool) ([]*models.Publication, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список изданий
// @Description Возвращает каталог изданий с фильтрами по типу, поиску и флагу рекомендуемых.
// @Tags Publications
// @Produce  json
// @Param type query string false "Тип издания (MAGAZINE или NEWSPAPER)"
// @Param search query string false "Поисковая строка"
// @Param featured query bool false "Только рекомендуемые"
// @Success 200 {object} map[string]any "Список изданий"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /publications [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.publication.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	pubType := r.URL.Query().Get("type")
	search := r.URL.Query().Get("search")
	featured, _ := strconv.ParseBool(r.URL.Query().Get("featured"))

	res, err := h.service.List(r.Context(), pubType, search, featured)
	if err != nil {
		log.Error("failed to list publications", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("list publications", "count", len(res))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count":   len(res),
		"publications": res,
	}))
}
