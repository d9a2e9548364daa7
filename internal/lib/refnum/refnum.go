// Package refnum генерирует номера подписок и заказов.
//
// Номер подписки имеет вид SUB- плюс 8 заглавных шестнадцатеричных символов,
// номер заказа — ORD- плюс 12. Энтропия берётся из случайного UUID.
// Уникальность номера подписки обеспечивается проверкой в хранилище
// с ограниченным числом повторов, номер заказа на уникальность не проверяется.
package refnum

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// SubscriptionPrefix — префикс номера подписки.
	SubscriptionPrefix = "SUB-"
	// OrderPrefix — префикс номера заказа.
	OrderPrefix = "ORD-"

	subscriptionSuffixLen = 8
	orderSuffixLen        = 12
)

// SubscriptionNumber возвращает кандидат номера подписки.
// Вызывающая сторона обязана проверить его на коллизию в хранилище.
func SubscriptionNumber() string {
	return SubscriptionPrefix + randomSuffix(subscriptionSuffixLen)
}

// OrderNumber возвращает номер заказа.
func OrderNumber() string {
	return OrderPrefix + randomSuffix(orderSuffixLen)
}

func randomSuffix(n int) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:n])
}
