package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/readsphere/readsphere-backend/internal/apperr"
	"github.com/readsphere/readsphere-backend/internal/models"
)

const reviewColumns = `id, user_id, subscription_id, publication_id, issue_number,
	publication_date, article_name, author_last_name, content, word_count,
	sentence_count, status, points_awarded, submitted_date, rejection_reason`

func scanReview(scan func(dest ...any) error) (*models.Review, error) {
	r := &models.Review{}
	var reason sql.NullString
	err := scan(&r.ID, &r.UserID, &r.SubscriptionID, &r.PublicationID, &r.IssueNumber,
		&r.PublicationDate, &r.ArticleName, &r.AuthorLastName, &r.Content, &r.WordCount,
		&r.SentenceCount, &r.Status, &r.PointsAwarded, &r.SubmittedDate, &reason)
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		r.RejectionReason = reason.String
	}
	return r, nil
}

// CreateReview вставляет новую рецензию и возвращает её ID.
func (q *Queries) CreateReview(ctx context.Context, review models.Review) (int64, error) {
	const op = "storage.CreateReview"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reviews (user_id, subscription_id, publication_id, issue_number,
			      publication_date, article_name, author_last_name, content, word_count,
			      sentence_count, status, points_awarded, submitted_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING id`
	var newID int64
	err := q.db.QueryRowContext(ctx, query,
		review.UserID, review.SubscriptionID, review.PublicationID, review.IssueNumber,
		review.PublicationDate, review.ArticleName, review.AuthorLastName, review.Content,
		review.WordCount, review.SentenceCount, review.Status, review.PointsAwarded,
		review.SubmittedDate).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetReview возвращает рецензию по её ID.
func (q *Queries) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	const op = "storage.GetReview"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	r, err := scanReview(q.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("review", id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// GetReviewForUpdate возвращает рецензию, блокируя её строку до конца
// текущей транзакции. Используется модерацией: конкурентные решения по
// одной рецензии сериализуются, повторное одобрение не начисляет баллы дважды.
func (q *Queries) GetReviewForUpdate(ctx context.Context, id int64) (*models.Review, error) {
	const op = "storage.GetReviewForUpdate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1 FOR UPDATE`
	r, err := scanReview(q.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("review", id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// UpdateReviewModeration записывает решение модератора: терминальный статус,
// начисленные баллы и причину отклонения.
func (q *Queries) UpdateReviewModeration(ctx context.Context, review models.Review) error {
	const op = "storage.UpdateReviewModeration"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var reason sql.NullString
	if review.RejectionReason != "" {
		reason = sql.NullString{String: review.RejectionReason, Valid: true}
	}

	query := `UPDATE reviews
			  SET status = $1, points_awarded = $2, rejection_reason = $3
			  WHERE id = $4`
	res, err := q.db.ExecContext(ctx, query,
		review.Status, review.PointsAwarded, reason, review.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return apperr.NotFound("review", review.ID)
	}
	return nil
}

func (q *Queries) listReviews(ctx context.Context, op, query string, args ...any) ([]*models.Review, error) {
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

	var result []*models.Review
	for rows.Next() {
		r, err := scanReview(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListReviewsByStatus возвращает рецензии в заданном статусе модерации.
func (q *Queries) ListReviewsByStatus(ctx context.Context, status models.ReviewStatus) ([]*models.Review, error) {
	return q.listReviews(ctx, "storage.ListReviewsByStatus",
		`SELECT `+reviewColumns+` FROM reviews WHERE status = $1 ORDER BY id`, status)
}

// ListReviewsByUser возвращает рецензии пользователя.
func (q *Queries) ListReviewsByUser(ctx context.Context, userID int64) ([]*models.Review, error) {
	return q.listReviews(ctx, "storage.ListReviewsByUser",
		`SELECT `+reviewColumns+` FROM reviews WHERE user_id = $1 ORDER BY id`, userID)
}

// ListReviewsByPublication возвращает рецензии на издание.
func (q *Queries) ListReviewsByPublication(ctx context.Context, publicationID int64) ([]*models.Review, error) {
	return q.listReviews(ctx, "storage.ListReviewsByPublication",
		`SELECT `+reviewColumns+` FROM reviews WHERE publication_id = $1 ORDER BY id`, publicationID)
}
