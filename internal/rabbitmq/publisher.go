package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Маршрутные ключи доменных событий.
const (
	KeySubscriptionPurchased = "subscription.purchased"
	KeySubscriptionCancelled = "subscription.cancelled"
	KeyReviewApproved        = "review.approved"
	KeyReviewRejected        = "review.rejected"
)

// SubscriptionEvent — полезная нагрузка событий покупки и отмены подписки.
type SubscriptionEvent struct {
	SubscriptionID     int64     `json:"subscription_id"`
	SubscriptionNumber string    `json:"subscription_number"`
	Username           string    `json:"username"`
	PublicationID      int64     `json:"publication_id"`
	PointsAwarded      int       `json:"points_awarded"`
	RefundAmount       float64   `json:"refund_amount,omitempty"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// ReviewEvent — полезная нагрузка событий модерации рецензии.
type ReviewEvent struct {
	ReviewID      int64     `json:"review_id"`
	Username      string    `json:"username"`
	PublicationID int64     `json:"publication_id"`
	PointsAwarded int       `json:"points_awarded"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher публикует события в exchange доменных событий.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// Publish сериализует сообщение в JSON и публикует его с данным маршрутным ключом.
func (p *Publisher) Publish(routingKey string, message any) error {
	const op = "rabbitmq.Publish"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
