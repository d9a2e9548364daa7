// Package storage реализует хранилище данных на основе PostgreSQL
// для пользователей, каталога изданий, подписок и рецензий.
//
// Каждая изменяющая операция ядра выполняется внутри одной транзакции
// через WithinTx: изменение баланса баллов и запись подписки или рецензии
// фиксируются только вместе. Уникальность номера подписки гарантирует
// ограничение UNIQUE на уровне базы.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/readsphere/readsphere-backend/internal/models"
)

// DBTX объединяет методы *sql.DB и *sql.Tx, используемые запросами.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UserQueries описывает операции над пользователями.
type UserQueries interface {
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByUsernameForUpdate(ctx context.Context, username string) (*models.User, error)
	UpdateUserPoints(ctx context.Context, username string, points int) error
	UpdateUserProfile(ctx context.Context, user models.User) error
}

// PublicationQueries описывает операции чтения каталога изданий.
// Для ядра каталог доступен только на чтение.
type PublicationQueries interface {
	GetPublication(ctx context.Context, id int64) (*models.Publication, error)
	ListPublications(ctx context.Context) ([]*models.Publication, error)
	ListPublicationsByType(ctx context.Context, t models.PublicationType) ([]*models.Publication, error)
	ListFeaturedPublications(ctx context.Context) ([]*models.Publication, error)
	SearchPublications(ctx context.Context, query string) ([]*models.Publication, error)
}

// SubscriptionQueries описывает операции над оформленными подписками.
type SubscriptionQueries interface {
	CreateSubscription(ctx context.Context, sub models.UserSubscription) (int64, error)
	GetSubscription(ctx context.Context, id int64) (*models.UserSubscription, error)
	GetSubscriptionForUpdate(ctx context.Context, id int64) (*models.UserSubscription, error)
	SubscriptionNumberExists(ctx context.Context, number string) (bool, error)
	MarkSubscriptionCancelled(ctx context.Context, sub models.UserSubscription) error
	ListSubscriptionsByUser(ctx context.Context, userID int64) ([]*models.UserSubscription, error)
}

// ReviewQueries описывает операции над рецензиями.
type ReviewQueries interface {
	CreateReview(ctx context.Context, review models.Review) (int64, error)
	GetReview(ctx context.Context, id int64) (*models.Review, error)
	GetReviewForUpdate(ctx context.Context, id int64) (*models.Review, error)
	UpdateReviewModeration(ctx context.Context, review models.Review) error
	ListReviewsByStatus(ctx context.Context, status models.ReviewStatus) ([]*models.Review, error)
	ListReviewsByUser(ctx context.Context, userID int64) ([]*models.Review, error)
	ListReviewsByPublication(ctx context.Context, publicationID int64) ([]*models.Review, error)
}

// Q объединяет все запросы хранилища. Внутри WithinTx реализация
// привязана к транзакции, снаружи — к пулу соединений.
type Q interface {
	UserQueries
	PublicationQueries
	SubscriptionQueries
	ReviewQueries
}

// Queries реализует Q поверх *sql.DB или *sql.Tx.
type Queries struct {
	db DBTX
}

// Storage инкапсулирует соединение с PostgreSQL. Встроенные Queries
// выполняют запросы вне транзакции.
type Storage struct {
	DB *sql.DB
	*Queries
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB:      db,
		Queries: &Queries{db: db},
	}, nil
}

// WithinTx выполняет fn внутри одной транзакции: все запросы через
// переданный Q фиксируются или откатываются вместе. Ошибка fn
// откатывает транзакцию и возвращается вызывающей стороне.
func (s *Storage) WithinTx(ctx context.Context, fn func(q Q) error) error {
	const op = "storage.WithinTx"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := fn(&Queries{db: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%s: rollback: %v: %w", op, rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsUniqueViolation сообщает, вызвана ли ошибка нарушением ограничения
// уникальности с данным именем. Используется циклом генерации номера
// подписки: вставка, проигравшая гонку, повторяется с новым номером.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == constraint
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'user_subscriptions'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table user_subscriptions missing or query error: %w", err)
	}
	return nil
}
