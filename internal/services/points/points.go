// Package services содержит реестр баллов — атомарные операции
// начисления и списания бонусного баланса пользователя.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/readsphere/readsphere-backend/internal/apperr"
	"github.com/readsphere/readsphere-backend/internal/models"
	"github.com/readsphere/readsphere-backend/internal/storage"
)

const (
	// PointsPerUnit — курс конвертации: 100 баллов равны одной единице валюты
	// при оплате покупки баллами.
	PointsPerUnit = 100
	// RewardRateMagazine — ставка начисления для журналов: 10% от оплаченной цены.
	RewardRateMagazine = 0.10
	// RewardRateNewspaper — ставка начисления для газет: 20% от оплаченной цены.
	RewardRateNewspaper = 0.20
	// ReviewRewardPoints — фиксированное начисление за одобренную рецензию.
	ReviewRewardPoints = 200
)

// RewardRate возвращает ставку начисления баллов для типа издания.
func RewardRate(t models.PublicationType) float64 {
	if t == models.PublicationMagazine {
		return RewardRateMagazine
	}
	return RewardRateNewspaper
}

// RewardPoints вычисляет начисление за покупку: оплачиваемая цена, умноженная
// на ставку и курс, с усечением до целого. Отрицательный результат (цена,
// ушедшая в минус из-за избыточной скидки баллами) прижимается к нулю.
func RewardPoints(payable float64, t models.PublicationType) int {
	pts := int(payable * RewardRate(t) * PointsPerUnit)
	if pts < 0 {
		return 0
	}
	return pts
}

// Ledger реализует операции над балансом баллов. Методы принимают
// storage.UserQueries явно, чтобы вызывающая сторона могла передать
// транзакционный набор запросов: изменение баланса фиксируется вместе
// с остальными записями операции.
type Ledger struct {
	log *slog.Logger
}

// NewLedger создает новый экземпляр Ledger.
func NewLedger(log *slog.Logger) *Ledger {
	return &Ledger{log: log}
}

// Credit добавляет amount баллов к балансу пользователя и возвращает новый баланс.
// Отказать может только хранилище.
func (l *Ledger) Credit(ctx context.Context, q storage.UserQueries, username string, amount int) (int, error) {
	const op = "points.Credit"
	if amount < 0 {
		return 0, fmt.Errorf("%s: negative amount %d", op, amount)
	}

	user, err := q.GetUserByUsernameForUpdate(ctx, username)
	if err != nil {
		return 0, err
	}
	balance := user.Points + amount
	if err := q.UpdateUserPoints(ctx, username, balance); err != nil {
		return 0, err
	}

	l.log.Info("points credited",
		slog.String("username", username),
		slog.Int("amount", amount),
		slog.Int("balance", balance))
	return balance, nil
}

// Debit списывает amount баллов. Если баллов на балансе меньше, чем amount,
// возвращает InsufficientPoints и баланс не меняет.
func (l *Ledger) Debit(ctx context.Context, q storage.UserQueries, username string, amount int) (int, error) {
	const op = "points.Debit"
	if amount < 0 {
		return 0, fmt.Errorf("%s: negative amount %d", op, amount)
	}

	user, err := q.GetUserByUsernameForUpdate(ctx, username)
	if err != nil {
		return 0, err
	}
	if user.Points < amount {
		return 0, apperr.InsufficientPoints(amount, user.Points)
	}
	balance := user.Points - amount
	if err := q.UpdateUserPoints(ctx, username, balance); err != nil {
		return 0, err
	}

	l.log.Info("points debited",
		slog.String("username", username),
		slog.Int("amount", amount),
		slog.Int("balance", balance))
	return balance, nil
}

// Clawback безотказно возвращает ранее начисленные баллы: списывает
// min(баланс, amount), баланс никогда не уходит в минус. Отличается от Debit,
// потому что пользователь мог уже потратить часть начисленного.
func (l *Ledger) Clawback(ctx context.Context, q storage.UserQueries, username string, amount int) (int, error) {
	const op = "points.Clawback"
	if amount < 0 {
		return 0, fmt.Errorf("%s: negative amount %d", op, amount)
	}

	user, err := q.GetUserByUsernameForUpdate(ctx, username)
	if err != nil {
		return 0, err
	}
	deduct := amount
	if user.Points < deduct {
		deduct = user.Points
	}
	balance := user.Points - deduct
	if err := q.UpdateUserPoints(ctx, username, balance); err != nil {
		return 0, err
	}

	l.log.Info("points clawed back",
		slog.String("username", username),
		slog.Int("requested", amount),
		slog.Int("deducted", deduct),
		slog.Int("balance", balance))
	return balance, nil
}
