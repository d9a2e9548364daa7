// Package services содержит бизнес-логику жизненного цикла подписок:
// покупку с оплатой деньгами и/или баллами и отмену с пропорциональным
// возвратом.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/readsphere/readsphere-backend/internal/apperr"
	"github.com/readsphere/readsphere-backend/internal/lib/dateutil"
	"github.com/readsphere/readsphere-backend/internal/lib/refnum"
	"github.com/readsphere/readsphere-backend/internal/lib/sl"
	"github.com/readsphere/readsphere-backend/internal/models"
	"github.com/readsphere/readsphere-backend/internal/rabbitmq"
	pointsservice "github.com/readsphere/readsphere-backend/internal/services/points"
	"github.com/readsphere/readsphere-backend/internal/storage"
)

// maxNumberAttempts — бюджет повторов генерации номера подписки.
// Исчерпание бюджета завершает покупку ошибкой Conflict.
const maxNumberAttempts = 5

// errNumberTaken — внутренний сигнал: кандидат номера уже занят,
// транзакция откатывается и покупка повторяется с новым номером.
var errNumberTaken = errors.New("subscription number already taken")

// Store определяет методы хранилища, используемые жизненным циклом подписок.
type Store interface {
	// WithinTx выполняет fn внутри одной транзакции.
	WithinTx(ctx context.Context, fn func(q storage.Q) error) error
	// GetUserByUsername возвращает пользователя по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// ListSubscriptionsByUser возвращает подписки пользователя.
	ListSubscriptionsByUser(ctx context.Context, userID int64) ([]*models.UserSubscription, error)
}

// PointsLedger описывает операции реестра баллов, нужные покупке и отмене.
type PointsLedger interface {
	Credit(ctx context.Context, q storage.UserQueries, username string, amount int) (int, error)
	Debit(ctx context.Context, q storage.UserQueries, username string, amount int) (int, error)
	Clawback(ctx context.Context, q storage.UserQueries, username string, amount int) (int, error)
}

// EventPublisher публикует доменные события после фиксации транзакции.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// SubscriptionService реализует покупку и отмену подписок.
type SubscriptionService struct {
	store  Store
	ledger PointsLedger
	events EventPublisher // nil, если брокер не сконфигурирован
	log    *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(store Store, ledger PointsLedger, events EventPublisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		store:  store,
		ledger: ledger,
		events: events,
		log:    log,
	}
}

// Purchase оформляет подписку на издание сроком один год.
//
// При оплате баллами или смешанной оплате запрошенные баллы списываются,
// а оплачиваемая цена уменьшается по курсу 100 баллов за единицу валюты.
// Начисление баллов пропускается только для покупки целиком за баллы;
// при смешанной оплате начисление считается от цены после скидки.
// Списание, начисление и вставка подписки фиксируются одной транзакцией.
func (s *SubscriptionService) Purchase(ctx context.Context, username string, req models.PurchaseRequest) (*models.UserSubscription, error) {
	method := models.PaymentMethod(req.PaymentMethod)

	var created *models.UserSubscription
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		created = nil
		err := s.store.WithinTx(ctx, func(q storage.Q) error {
			user, err := q.GetUserByUsernameForUpdate(ctx, username)
			if err != nil {
				return err
			}
			publication, err := q.GetPublication(ctx, req.PublicationID)
			if err != nil {
				return err
			}

			payable := publication.Price
			paidWithPoints := false
			if method == models.PaymentPoints || method == models.PaymentMixed {
				if _, err := s.ledger.Debit(ctx, q, username, req.PointsToUse); err != nil {
					return err
				}
				payable -= float64(req.PointsToUse) / pointsservice.PointsPerUnit
				paidWithPoints = true
			}

			pointsToAward := 0
			if !(paidWithPoints && method == models.PaymentPoints) {
				pointsToAward = pointsservice.RewardPoints(payable, publication.Type)
			}
			if pointsToAward > 0 {
				if _, err := s.ledger.Credit(ctx, q, username, pointsToAward); err != nil {
					return err
				}
			}

			number := refnum.SubscriptionNumber()
			exists, err := q.SubscriptionNumberExists(ctx, number)
			if err != nil {
				return err
			}
			if exists {
				return errNumberTaken
			}

			today := dateutil.Today()
			sub := models.UserSubscription{
				SubscriptionNumber: number,
				OrderNumber:        refnum.OrderNumber(),
				UserID:             user.ID,
				PublicationID:      publication.ID,
				StartDate:          today,
				EndDate:            today.AddDate(1, 0, 0),
				Status:             models.SubscriptionActive,
				Price:              publication.Price,
				IssuesPerYear:      publication.IssuesPerYear,
				PointsAwarded:      pointsToAward,
				PaidWithPoints:     paidWithPoints,
			}
			id, err := q.CreateSubscription(ctx, sub)
			if err != nil {
				return err
			}
			sub.ID = id
			created = &sub
			return nil
		})
		if err == nil {
			s.log.Info("subscription purchased",
				slog.Int64("id", created.ID),
				slog.String("number", created.SubscriptionNumber),
				slog.String("username", username))
			s.publish(rabbitmq.KeySubscriptionPurchased, rabbitmq.SubscriptionEvent{
				SubscriptionID:     created.ID,
				SubscriptionNumber: created.SubscriptionNumber,
				Username:           username,
				PublicationID:      created.PublicationID,
				PointsAwarded:      created.PointsAwarded,
				OccurredAt:         dateutil.Today(),
			})
			return created, nil
		}
		// Проигранная гонка за номер: и предварительная проверка, и
		// ограничение UNIQUE приводят сюда, покупка повторяется целиком.
		if errors.Is(err, errNumberTaken) ||
			storage.IsUniqueViolation(err, storage.SubscriptionNumberConstraint) {
			s.log.Warn("subscription number collision, retrying",
				slog.String("username", username),
				slog.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}
	return nil, apperr.Conflict("subscription number generation exhausted retry budget")
}

// Cancel отменяет действующую подписку её владельца.
//
// Возврат пропорционален оставшимся дням: remainingDays/totalDays от снимка
// цены, отрицательный остаток и нулевой срок дают нулевой возврат.
// Начисленные при покупке баллы возвращаются через Clawback — с прижимом
// к нулю, если пользователь уже часть потратил.
func (s *SubscriptionService) Cancel(ctx context.Context, username string, subscriptionID int64) (*models.UserSubscription, error) {
	var cancelled *models.UserSubscription
	err := s.store.WithinTx(ctx, func(q storage.Q) error {
		sub, err := q.GetSubscriptionForUpdate(ctx, subscriptionID)
		if err != nil {
			return err
		}
		user, err := q.GetUserByUsernameForUpdate(ctx, username)
		if err != nil {
			return err
		}
		if sub.UserID != user.ID {
			return apperr.Unauthorized(username, fmt.Sprintf("subscription %d", subscriptionID))
		}
		if sub.Status != models.SubscriptionActive {
			return apperr.InvalidState("cancel", string(sub.Status))
		}

		today := dateutil.Today()
		totalDays := dateutil.DaysBetween(sub.StartDate, sub.EndDate)
		remainingDays := dateutil.DaysBetween(today, sub.EndDate)
		if remainingDays < 0 {
			remainingDays = 0
		}
		var refund float64
		if totalDays > 0 {
			refund = float64(remainingDays) / float64(totalDays) * sub.Price
		}

		sub.Status = models.SubscriptionCancelled
		sub.CancelledDate = &today
		sub.RefundAmount = &refund
		if err := q.MarkSubscriptionCancelled(ctx, *sub); err != nil {
			return err
		}

		if sub.PointsAwarded > 0 {
			if _, err := s.ledger.Clawback(ctx, q, username, sub.PointsAwarded); err != nil {
				return err
			}
		}
		cancelled = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("subscription cancelled",
		slog.Int64("id", cancelled.ID),
		slog.String("username", username),
		slog.Float64("refund", *cancelled.RefundAmount))
	s.publish(rabbitmq.KeySubscriptionCancelled, rabbitmq.SubscriptionEvent{
		SubscriptionID:     cancelled.ID,
		SubscriptionNumber: cancelled.SubscriptionNumber,
		Username:           username,
		PublicationID:      cancelled.PublicationID,
		PointsAwarded:      cancelled.PointsAwarded,
		RefundAmount:       *cancelled.RefundAmount,
		OccurredAt:         dateutil.Today(),
	})
	return cancelled, nil
}

// ListForUser возвращает все подписки пользователя.
func (s *SubscriptionService) ListForUser(ctx context.Context, username string) ([]*models.UserSubscription, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.store.ListSubscriptionsByUser(ctx, user.ID)
}

// publish отправляет событие в брокер; недоступность брокера операцию не ломает.
func (s *SubscriptionService) publish(key string, event any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(key, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("key", key), sl.Err(err))
	}
}
