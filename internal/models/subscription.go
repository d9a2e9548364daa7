package models

import "time"

// SubscriptionStatus статус оформленной подписки.
type SubscriptionStatus string

const (
	// SubscriptionActive — действующая подписка.
	SubscriptionActive SubscriptionStatus = "ACTIVE"
	// SubscriptionCancelled — отменённая подписка, терминальный статус.
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
)

// PaymentMethod способ оплаты покупки подписки.
type PaymentMethod string

const (
	// PaymentCard — оплата картой целиком.
	PaymentCard PaymentMethod = "card"
	// PaymentPoints — оплата только баллами; такие покупки баллы не начисляют.
	PaymentPoints PaymentMethod = "points"
	// PaymentMixed — карта плюс баллы; начисление идёт на цену после скидки.
	PaymentMixed PaymentMethod = "mixed"
)

// UserSubscription представляет оформленную подписку пользователя на издание.
//
// Price и IssuesPerYear — снимки значений издания на момент покупки,
// они не меняются даже при изменении записи каталога. PointsAwarded
// фиксируется один раз при покупке и не пересчитывается. Записи
// создаются только покупкой, изменяются только отменой и не удаляются.
type UserSubscription struct {
	ID                 int64              `json:"id"`
	SubscriptionNumber string             `json:"subscription_number"` // SUB- + 8 символов, глобально уникален
	OrderNumber        string             `json:"order_number"`        // ORD- + 12 символов, уникальность не гарантируется
	UserID             int64              `json:"user_id"`
	PublicationID      int64              `json:"publication_id"`
	StartDate          time.Time          `json:"start_date"`
	EndDate            time.Time          `json:"end_date"` // StartDate + 1 год
	Status             SubscriptionStatus `json:"status"`
	Price              float64            `json:"price"`           // Снимок цены издания
	IssuesPerYear      int                `json:"issues_per_year"` // Снимок периодичности
	PointsAwarded      int                `json:"points_awarded"`
	PaidWithPoints     bool               `json:"paid_with_points"`
	RefundAmount       *float64           `json:"refund_amount,omitempty"` // nil до отмены
	CancelledDate      *time.Time         `json:"cancelled_date,omitempty"`
}

// PurchaseRequest используется для приёма данных покупки из JSON-запроса.
type PurchaseRequest struct {
	PublicationID int64  `json:"publication_id" validate:"required,gt=0"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=card points mixed"`
	PointsToUse   int    `json:"points_to_use" validate:"gte=0"`
}
