// Package services содержит логику каталога изданий: чтение и поиск с
// кешированием записей по идентификатору. Для ядра экономики баллов
// каталог доступен только на чтение.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/readsphere/readsphere-backend/internal/models"
)

// Repository определяет методы чтения каталога из хранилища.
type Repository interface {
	GetPublication(ctx context.Context, id int64) (*models.Publication, error)
	ListPublications(ctx context.Context) ([]*models.Publication, error)
	ListPublicationsByType(ctx context.Context, t models.PublicationType) ([]*models.Publication, error)
	ListFeaturedPublications(ctx context.Context) ([]*models.Publication, error)
	SearchPublications(ctx context.Context, query string) ([]*models.Publication, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// CatalogService реализует чтение каталога с кешем по идентификатору.
type CatalogService struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo Repository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// GetByID возвращает издание по ID, используя кеш или хранилище.
func (s *CatalogService) GetByID(ctx context.Context, id int64) (*models.Publication, error) {
	var result *models.Publication
	cacheKey := fmt.Sprintf("publication:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetPublication(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache publication", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// List возвращает издания каталога с учётом фильтров: по типу, по признаку
// избранного или по подстроке названия. Фильтры взаимоисключающие,
// приоритет — в порядке перечисления.
func (s *CatalogService) List(ctx context.Context, pubType, search string, featured bool) ([]*models.Publication, error) {
	switch {
	case pubType != "":
		t := models.PublicationType(pubType)
		return s.repo.ListPublicationsByType(ctx, t)
	case featured:
		return s.repo.ListFeaturedPublications(ctx)
	case search != "":
		return s.repo.SearchPublications(ctx, search)
	default:
		return s.repo.ListPublications(ctx)
	}
}
