// Package services содержит логику профиля пользователя: чтение и
// обновление контактных данных и непрозрачных платёжных реквизитов.
// Баланс баллов и роль через профиль не изменяются — балансом владеет
// только реестр баллов.
package services

import (
	"context"
	"log/slog"

	"github.com/readsphere/readsphere-backend/internal/models"
)

// Repository описывает методы хранилища для работы с профилем.
type Repository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, user models.User) error
}

// UserService реализует операции профиля.
type UserService struct {
	repo Repository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo Repository, log *slog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// GetProfile возвращает профиль пользователя без хэша пароля.
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	profile := user.ToProfile()
	return &profile, nil
}

// UpdateProfile обновляет контактные данные и платёжные реквизиты
// и возвращает обновлённый профиль.
func (s *UserService) UpdateProfile(ctx context.Context, username string, req models.UpdateProfileRequest) (*models.Profile, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.MiddleInitial = req.MiddleInitial
	user.Address = req.Address
	user.CardNumber = req.CardNumber
	user.ExpiryDate = req.ExpiryDate
	user.CVV = req.CVV
	user.NameOnCard = req.NameOnCard

	if err := s.repo.UpdateUserProfile(ctx, *user); err != nil {
		return nil, err
	}
	s.log.Info("profile updated", slog.String("username", username))

	profile := user.ToProfile()
	return &profile, nil
}
