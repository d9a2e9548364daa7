// Package models содержит доменные структуры платформы ReadSphere:
// пользователей, издания каталога, оформленные подписки и рецензии.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

// User представляет зарегистрированного пользователя системы.
// Поле Points — баланс бонусных баллов, инвариант: баланс никогда не отрицательный.
// Платёжные реквизиты хранятся как непрозрачные строки и никогда не используются
// для списаний.
type User struct {
	ID            int64  // Уникальный идентификатор пользователя
	Username      string // Имя пользователя (уникальное)
	PasswordHash  string // Хэш пароля пользователя
	Email         string // Электронная почта
	FirstName     string // Имя
	LastName      string // Фамилия
	MiddleInitial string // Инициал отчества (опционально)
	Address       string // Почтовый адрес
	CardNumber    string // Номер карты (непрозрачное поле)
	ExpiryDate    string // Срок действия карты (непрозрачное поле)
	CVV           string // CVV (непрозрачное поле)
	NameOnCard    string // Имя держателя карты (непрозрачное поле)
	Points        int    // Баланс бонусных баллов, >= 0
	Role          string // Роль пользователя, admin или user
}

// RegisterRequest используется для приёма данных регистрации из JSON-запроса.
type RegisterRequest struct {
	Username      string `json:"username" validate:"required,alphanum"`
	Password      string `json:"password" validate:"required,min=6"`
	Email         string `json:"email" validate:"required,email"`
	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name" validate:"required"`
	MiddleInitial string `json:"middle_initial"`
	Address       string `json:"address" validate:"required"`
}

// LoginRequest используется для приёма данных входа из JSON-запроса.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest используется для обновления профиля пользователя.
// Баланс баллов и роль через профиль не изменяются.
type UpdateProfileRequest struct {
	Email         string `json:"email" validate:"required,email"`
	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name" validate:"required"`
	MiddleInitial string `json:"middle_initial"`
	Address       string `json:"address" validate:"required"`
	CardNumber    string `json:"card_number"`
	ExpiryDate    string `json:"expiry_date"`
	CVV           string `json:"cvv"`
	NameOnCard    string `json:"name_on_card"`
}

// Profile — представление пользователя для ответов API, без хэша пароля и CVV.
type Profile struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	MiddleInitial string `json:"middle_initial,omitempty"`
	Address       string `json:"address"`
	CardNumber    string `json:"card_number,omitempty"`
	ExpiryDate    string `json:"expiry_date,omitempty"`
	NameOnCard    string `json:"name_on_card,omitempty"`
	Points        int    `json:"points"`
	Role          string `json:"role"`
}

// ToProfile конвертирует пользователя в представление для API.
func (u *User) ToProfile() Profile {
	return Profile{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		MiddleInitial: u.MiddleInitial,
		Address:       u.Address,
		CardNumber:    u.CardNumber,
		ExpiryDate:    u.ExpiryDate,
		NameOnCard:    u.NameOnCard,
		Points:        u.Points,
		Role:          u.Role,
	}
}
