package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus — статус учётной записи.
type AccountStatus string

const (
	// StatusPending — аккаунт создан, но не активирован.
	StatusPending AccountStatus = "pending"
	// StatusActive — аккаунт активен и может входить в систему.
	StatusActive AccountStatus = "active"
	// StatusBanned — аккаунт заблокирован администратором.
	StatusBanned AccountStatus = "banned"
	// StatusClosed — аккаунт закрыт (по запросу пользователя).
	StatusClosed AccountStatus = "closed"
)

// Account — учётная запись пользователя.
//
// Поля PasswordHash/PasswordSalt образуют учётные данные (credential record):
//   - соль случайна и уникальна для каждого аккаунта;
//   - хэш всегда вычисляется поверх пары (пароль, соль);
//   - пара заменяется атомарно одним UPDATE — хэш без соответствующей соли
//     в БД существовать не может;
//   - пустые значения означают, что пароль ещё не установлен.
type Account struct {
	ID    uuid.UUID
	Name  string
	Email string

	PasswordHash string
	PasswordSalt string

	Status    AccountStatus
	IsAdmin   bool
	IsDeleted bool

	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
	LastLoginIP string
}

// IsPasswordSet сообщает, установлен ли у аккаунта пароль.
func (a *Account) IsPasswordSet() bool {
	return a.PasswordHash != "" && a.PasswordSalt != ""
}

// IsActive — аккаунт активен и не удалён.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive && !a.IsDeleted
}

// CanLogin — аккаунт может войти: активен, не удалён, пароль установлен.
func (a *Account) CanLogin() bool {
	return a.IsActive() && a.IsPasswordSet()
}
