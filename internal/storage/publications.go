package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/readsphere/readsphere-backend/internal/apperr"
	"github.com/readsphere/readsphere-backend/internal/models"
)

const publicationColumns = `id, title, type, description, price, image,
	issues_per_year, city, category, rating, review_count, featured`

func scanPublicationRow(rows *sql.Rows) (*models.Publication, error) {
	p := &models.Publication{}
	err := rows.Scan(&p.ID, &p.Title, &p.Type, &p.Description, &p.Price, &p.Image,
		&p.IssuesPerYear, &p.City, &p.Category, &p.Rating, &p.ReviewCount, &p.Featured)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPublication возвращает издание по его ID.
func (q *Queries) GetPublication(ctx context.Context, id int64) (*models.Publication, error) {
	const op = "storage.GetPublication"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + publicationColumns + ` FROM publications WHERE id = $1`
	p := &models.Publication{}
	err := q.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Type, &p.Description, &p.Price, &p.Image,
		&p.IssuesPerYear, &p.City, &p.Category, &p.Rating, &p.ReviewCount, &p.Featured)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("publication", id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (q *Queries) listPublications(ctx context.Context, op, query string, args ...any) ([]*models.Publication, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Publication
	for rows.Next() {
		p, err := scanPublicationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPublications возвращает все издания каталога.
func (q *Queries) ListPublications(ctx context.Context) ([]*models.Publication, error) {
	return q.listPublications(ctx, "storage.ListPublications",
		`SELECT `+publicationColumns+` FROM publications ORDER BY id`)
}

// ListPublicationsByType возвращает издания заданного типа.
func (q *Queries) ListPublicationsByType(ctx context.Context, t models.PublicationType) ([]*models.Publication, error) {
	return q.listPublications(ctx, "storage.ListPublicationsByType",
		`SELECT `+publicationColumns+` FROM publications WHERE type = $1 ORDER BY id`, t)
}

// ListFeaturedPublications возвращает издания, отмеченные как избранные.
func (q *Queries) ListFeaturedPublications(ctx context.Context) ([]*models.Publication, error) {
	return q.listPublications(ctx, "storage.ListFeaturedPublications",
		`SELECT `+publicationColumns+` FROM publications WHERE featured = true ORDER BY id`)
}

// SearchPublications возвращает издания, название которых содержит подстроку
// без учёта регистра.
func (q *Queries) SearchPublications(ctx context.Context, query string) ([]*models.Publication, error) {
	return q.listPublications(ctx, "storage.SearchPublications",
		`SELECT `+publicationColumns+` FROM publications WHERE title ILIKE '%' || $1 || '%' ORDER BY id`, query)
}
