// Package services содержит бизнес-логику рецензий: отправку с проверкой
// права и качества текста и машину состояний модерации.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/readsphere/readsphere-backend/internal/apperr"
	"github.com/readsphere/readsphere-backend/internal/lib/dateutil"
	"github.com/readsphere/readsphere-backend/internal/lib/sl"
	"github.com/readsphere/readsphere-backend/internal/lib/textstat"
	"github.com/readsphere/readsphere-backend/internal/models"
	"github.com/readsphere/readsphere-backend/internal/rabbitmq"
	pointsservice "github.com/readsphere/readsphere-backend/internal/services/points"
	"github.com/readsphere/readsphere-backend/internal/storage"
)

const (
	// reviewWindowDays — окно рецензирования: рецензия принимается не позже
	// 30 дней после даты выхода выпуска, ровно 30 дней ещё допустимо.
	reviewWindowDays = 30
	// minWords — минимальное количество слов в рецензии.
	minWords = 50
	// minSentences — минимальное количество предложений в рецензии.
	minSentences = 5
)

// Store определяет методы хранилища, используемые рабочим процессом рецензий.
type Store interface {
	WithinTx(ctx context.Context, fn func(q storage.Q) error) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListReviewsByStatus(ctx context.Context, status models.ReviewStatus) ([]*models.Review, error)
	ListReviewsByUser(ctx context.Context, userID int64) ([]*models.Review, error)
	ListReviewsByPublication(ctx context.Context, publicationID int64) ([]*models.Review, error)
}

// PointsLedger описывает начисление баллов за одобренную рецензию.
type PointsLedger interface {
	Credit(ctx context.Context, q storage.UserQueries, username string, amount int) (int, error)
}

// EventPublisher публикует доменные события после фиксации транзакции.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// ReviewService реализует отправку и модерацию рецензий.
type ReviewService struct {
	store  Store
	ledger PointsLedger
	events EventPublisher // nil, если брокер не сконфигурирован
	log    *slog.Logger
}

// NewReviewService создает новый экземпляр ReviewService.
func NewReviewService(store Store, ledger PointsLedger, events EventPublisher, log *slog.Logger) *ReviewService {
	return &ReviewService{
		store:  store,
		ledger: ledger,
		events: events,
		log:    log,
	}
}

// Submit принимает рецензию на выпуск издания, на которое автор оформлял подписку.
//
// Статус подписки не проверяется: рецензию можно отправить и по уже
// отменённой подписке. Дата выхода в будущем не отклоняется. Счётчики слов
// и предложений вычисляются здесь один раз и сохраняются вместе с рецензией.
func (s *ReviewService) Submit(ctx context.Context, username string, req models.ReviewRequest) (*models.Review, error) {
	publicationDate, err := time.Parse("2006-01-02", req.PublicationDate)
	if err != nil {
		return nil, apperr.Validation("invalid publication date")
	}

	var created *models.Review
	err = s.store.WithinTx(ctx, func(q storage.Q) error {
		user, err := q.GetUserByUsername(ctx, username)
		if err != nil {
			return err
		}
		sub, err := q.GetSubscription(ctx, req.SubscriptionID)
		if err != nil {
			return err
		}
		if sub.UserID != user.ID {
			return apperr.Unauthorized(username, fmt.Sprintf("subscription %d", req.SubscriptionID))
		}

		today := dateutil.Today()
		if dateutil.DaysBetween(publicationDate, today) > reviewWindowDays {
			return apperr.Validation("review window expired")
		}

		wordCount := textstat.CountWords(req.Content)
		if wordCount < minWords {
			return apperr.Validation(fmt.Sprintf("review must contain at least %d words", minWords))
		}
		sentenceCount := textstat.CountSentences(req.Content)
		if sentenceCount < minSentences {
			return apperr.Validation(fmt.Sprintf("review must contain at least %d sentences", minSentences))
		}

		review := models.Review{
			UserID:          user.ID,
			SubscriptionID:  sub.ID,
			PublicationID:   sub.PublicationID,
			IssueNumber:     req.IssueNumber,
			PublicationDate: dateutil.Date(publicationDate),
			ArticleName:     req.ArticleName,
			AuthorLastName:  req.AuthorLastName,
			Content:         req.Content,
			WordCount:       wordCount,
			SentenceCount:   sentenceCount,
			Status:          models.ReviewPending,
			PointsAwarded:   0,
			SubmittedDate:   today,
		}
		id, err := q.CreateReview(ctx, review)
		if err != nil {
			return err
		}
		review.ID = id
		created = &review
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("review submitted",
		slog.Int64("id", created.ID),
		slog.String("username", username),
		slog.Int("words", created.WordCount),
		slog.Int("sentences", created.SentenceCount))
	return created, nil
}

// Approve одобряет ожидающую рецензию и начисляет автору 200 баллов.
// Смена статуса и начисление фиксируются одной транзакцией, поэтому
// повторное одобрение не начисляет баллы дважды.
func (s *ReviewService) Approve(ctx context.Context, reviewID int64) (*models.Review, error) {
	var approved *models.Review
	var author *models.User
	err := s.store.WithinTx(ctx, func(q storage.Q) error {
		review, err := q.GetReviewForUpdate(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.Status != models.ReviewPending {
			return apperr.InvalidState("approve", string(review.Status))
		}

		user, err := q.GetUserByID(ctx, review.UserID)
		if err != nil {
			return err
		}

		review.Status = models.ReviewApproved
		review.PointsAwarded = pointsservice.ReviewRewardPoints
		if err := q.UpdateReviewModeration(ctx, *review); err != nil {
			return err
		}
		if _, err := s.ledger.Credit(ctx, q, user.Username, pointsservice.ReviewRewardPoints); err != nil {
			return err
		}
		approved = review
		author = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("review approved",
		slog.Int64("id", approved.ID),
		slog.String("author", author.Username))
	s.publish(rabbitmq.KeyReviewApproved, rabbitmq.ReviewEvent{
		ReviewID:      approved.ID,
		Username:      author.Username,
		PublicationID: approved.PublicationID,
		PointsAwarded: approved.PointsAwarded,
		OccurredAt:    dateutil.Today(),
	})
	return approved, nil
}

// Reject отклоняет ожидающую рецензию с указанием причины. Баллы не меняются.
func (s *ReviewService) Reject(ctx context.Context, reviewID int64, reason string) (*models.Review, error) {
	var rejected *models.Review
	var author *models.User
	err := s.store.WithinTx(ctx, func(q storage.Q) error {
		review, err := q.GetReviewForUpdate(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.Status != models.ReviewPending {
			return apperr.InvalidState("reject", string(review.Status))
		}

		user, err := q.GetUserByID(ctx, review.UserID)
		if err != nil {
			return err
		}

		review.Status = models.ReviewRejected
		review.RejectionReason = reason
		if err := q.UpdateReviewModeration(ctx, *review); err != nil {
			return err
		}
		rejected = review
		author = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("review rejected",
		slog.Int64("id", rejected.ID),
		slog.String("author", author.Username),
		slog.String("reason", reason))
	s.publish(rabbitmq.KeyReviewRejected, rabbitmq.ReviewEvent{
		ReviewID:      rejected.ID,
		Username:      author.Username,
		PublicationID: rejected.PublicationID,
		Reason:        reason,
		OccurredAt:    dateutil.Today(),
	})
	return rejected, nil
}

// ListByStatus возвращает рецензии в заданном статусе модерации.
func (s *ReviewService) ListByStatus(ctx context.Context, status models.ReviewStatus) ([]*models.Review, error) {
	switch status {
	case models.ReviewPending, models.ReviewApproved, models.ReviewRejected:
	default:
		return nil, apperr.Validation(fmt.Sprintf("unknown review status %q", status))
	}
	return s.store.ListReviewsByStatus(ctx, status)
}

// ListForUser возвращает рецензии пользователя.
func (s *ReviewService) ListForUser(ctx context.Context, username string) ([]*models.Review, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.store.ListReviewsByUser(ctx, user.ID)
}

// ListForPublication возвращает рецензии на издание.
func (s *ReviewService) ListForPublication(ctx context.Context, publicationID int64) ([]*models.Review, error) {
	return s.store.ListReviewsByPublication(ctx, publicationID)
}

func (s *ReviewService) publish(key string, event any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(key, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("key", key), sl.Err(err))
	}
}
