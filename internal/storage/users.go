package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/readsphere/readsphere-backend/internal/apperr"
	"github.com/readsphere/readsphere-backend/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его ID.
func (q *Queries) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (username, password_hash, email, first_name, last_name,
			      middle_initial, address, card_number, expiry_date, cvv, name_on_card,
			      points, role)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING id`
	var newID int64
	err := q.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.FirstName, user.LastName,
		user.MiddleInitial, user.Address, user.CardNumber, user.ExpiryDate, user.CVV,
		user.NameOnCard, user.Points, user.Role).Scan(&newID)
	if err != nil {
		if IsUniqueViolation(err, UsernameConstraint) {
			return 0, apperr.Conflict(fmt.Sprintf("username %q is already taken", user.Username))
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UsernameConstraint — имя уникального ограничения на имя пользователя.
const UsernameConstraint = "users_username_key"

const userColumns = `id, username, password_hash, email, first_name, last_name,
	middle_initial, address, card_number, expiry_date, cvv, name_on_card, points, role`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.FirstName,
		&u.LastName, &u.MiddleInitial, &u.Address, &u.CardNumber, &u.ExpiryDate,
		&u.CVV, &u.NameOnCard, &u.Points, &u.Role)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByID возвращает пользователя по его ID.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(q.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(q.db.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user", username)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUsernameForUpdate возвращает пользователя, блокируя его строку
// до конца текущей транзакции. Используется перед изменением баланса баллов,
// чтобы конкурентные операции над одним пользователем сериализовались.
func (q *Queries) GetUserByUsernameForUpdate(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsernameForUpdate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 FOR UPDATE`
	u, err := scanUser(q.db.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user", username)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUserPoints записывает новый баланс баллов пользователя.
// Ограничение points >= 0 в схеме дублирует доменный инвариант.
func (q *Queries) UpdateUserPoints(ctx context.Context, username string, points int) error {
	const op = "storage.UpdateUserPoints"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET points = $1 WHERE username = $2`
	res, err := q.db.ExecContext(ctx, query, points, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return apperr.NotFound("user", username)
	}
	return nil
}

// UpdateUserProfile обновляет профиль пользователя. Баланс баллов,
// роль и хэш пароля этим запросом не изменяются.
func (q *Queries) UpdateUserProfile(ctx context.Context, user models.User) error {
	const op = "storage.UpdateUserProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET email = $1, first_name = $2, last_name = $3, middle_initial = $4,
			      address = $5, card_number = $6, expiry_date = $7, cvv = $8,
			      name_on_card = $9
			  WHERE username = $10`
	res, err := q.db.ExecContext(ctx, query,
		user.Email, user.FirstName, user.LastName, user.MiddleInitial,
		user.Address, user.CardNumber, user.ExpiryDate, user.CVV,
		user.NameOnCard, user.Username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return apperr.NotFound("user", user.Username)
	}
	return nil
}
