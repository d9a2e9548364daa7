// Package services содержит логику бизнес-уровня для регистрации и
// аутентификации пользователей.
package services

import (
	"context"
	"errors"

	"github.com/readsphere/readsphere-backend/internal/lib/jwt"
	"github.com/readsphere/readsphere-backend/internal/lib/password"
	"github.com/readsphere/readsphere-backend/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)
	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию и вход по паролю с выдачей JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля, дефолтной
// ролью user и нулевым балансом баллов, и возвращает токен доступа.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (string, *models.User, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", nil, err
	}
	user := models.User{
		Username:      req.Username,
		PasswordHash:  hashed,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		MiddleInitial: req.MiddleInitial,
		Address:       req.Address,
		Points:        0,
		Role:          "user", // дефолтная роль при регистрации
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return "", nil, err
	}
	user.ID = id

	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// Login проверяет пароль пользователя и генерирует JWT с его ролью.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
