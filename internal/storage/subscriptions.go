package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/readsphere/readsphere-backend/internal/apperr"
	"github.com/readsphere/readsphere-backend/internal/models"
)

// SubscriptionNumberConstraint — имя ограничения UNIQUE на номер подписки,
// финального арбитра гонки генерации номеров.
const SubscriptionNumberConstraint = "user_subscriptions_subscription_number_key"

const subscriptionColumns = `id, subscription_number, order_number, user_id, publication_id,
	start_date, end_date, status, price, issues_per_year, points_awarded, paid_with_points,
	refund_amount, cancelled_date`

func scanSubscription(scan func(dest ...any) error) (*models.UserSubscription, error) {
	s := &models.UserSubscription{}
	var refund sql.NullFloat64
	var cancelled sql.NullTime
	err := scan(&s.ID, &s.SubscriptionNumber, &s.OrderNumber, &s.UserID, &s.PublicationID,
		&s.StartDate, &s.EndDate, &s.Status, &s.Price, &s.IssuesPerYear, &s.PointsAwarded,
		&s.PaidWithPoints, &refund, &cancelled)
	if err != nil {
		return nil, err
	}
	if refund.Valid {
		s.RefundAmount = &refund.Float64
	}
	if cancelled.Valid {
		s.CancelledDate = &cancelled.Time
	}
	return s, nil
}

// CreateSubscription вставляет новую подписку и возвращает её ID.
// Нарушение уникальности subscription_number возвращается как есть,
// его распознаёт IsUniqueViolation в цикле генерации номера.
func (q *Queries) CreateSubscription(ctx context.Context, sub models.UserSubscription) (int64, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_subscriptions (subscription_number, order_number, user_id,
			      publication_id, start_date, end_date, status, price, issues_per_year,
			      points_awarded, paid_with_points)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING id`
	var newID int64
	err := q.db.QueryRowContext(ctx, query,
		sub.SubscriptionNumber, sub.OrderNumber, sub.UserID, sub.PublicationID,
		sub.StartDate, sub.EndDate, sub.Status, sub.Price, sub.IssuesPerYear,
		sub.PointsAwarded, sub.PaidWithPoints).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetSubscription возвращает подписку по её ID.
func (q *Queries) GetSubscription(ctx context.Context, id int64) (*models.UserSubscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + ` FROM user_subscriptions WHERE id = $1`
	s, err := scanSubscription(q.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("subscription", id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// GetSubscriptionForUpdate возвращает подписку, блокируя её строку до конца
// текущей транзакции. Используется отменой, чтобы переход статуса
// ACTIVE -> CANCELLED выполнился ровно один раз.
func (q *Queries) GetSubscriptionForUpdate(ctx context.Context, id int64) (*models.UserSubscription, error) {
	const op = "storage.GetSubscriptionForUpdate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + ` FROM user_subscriptions WHERE id = $1 FOR UPDATE`
	s, err := scanSubscription(q.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("subscription", id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// SubscriptionNumberExists проверяет занятость номера подписки.
// Финальную гарантию уникальности даёт ограничение базы, эта проверка
// лишь сокращает число заведомо конфликтных вставок.
func (q *Queries) SubscriptionNumberExists(ctx context.Context, number string) (bool, error) {
	const op = "storage.SubscriptionNumberExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (SELECT 1 FROM user_subscriptions WHERE subscription_number = $1)`
	var exists bool
	if err := q.db.QueryRowContext(ctx, query, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// MarkSubscriptionCancelled записывает терминальное состояние подписки:
// статус, дату отмены и сумму возврата.
func (q *Queries) MarkSubscriptionCancelled(ctx context.Context, sub models.UserSubscription) error {
	const op = "storage.MarkSubscriptionCancelled"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE user_subscriptions
			  SET status = $1, cancelled_date = $2, refund_amount = $3
			  WHERE id = $4`
	res, err := q.db.ExecContext(ctx, query,
		sub.Status, sub.CancelledDate, sub.RefundAmount, sub.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return apperr.NotFound("subscription", sub.ID)
	}
	return nil
}

// ListSubscriptionsByUser возвращает все подписки пользователя.
func (q *Queries) ListSubscriptionsByUser(ctx context.Context, userID int64) ([]*models.UserSubscription, error) {
	const op = "storage.ListSubscriptionsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM user_subscriptions
			  WHERE user_id = $1
			  ORDER BY id`
	rows, err := q.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserSubscription
	for rows.Next() {
		s, err := scanSubscription(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
