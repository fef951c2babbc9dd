package storage

import (
	"context"
	"errors"
	"time"

	"github.com/madcrow/auth-service/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound — запись не найдена (аккаунт/сессия).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/хэш токена).
	ErrAlreadyExists = errors.New("already exists")
)

// AccountStorage выполняет операции над аккаунтами и их учётными данными.
type AccountStorage interface {
	// SaveAccount создает новый аккаунт в БД.
	SaveAccount(ctx context.Context, account *models.Account) error
	// AccountByEmail находит не удалённый аккаунт по email.
	AccountByEmail(ctx context.Context, email string) (*models.Account, error)
	// AccountByID находит аккаунт по ID.
	AccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	// UpdateCredential атомарно заменяет пару (хэш, соль) одним UPDATE.
	UpdateCredential(ctx context.Context, id uuid.UUID, hash, salt string) error
	// UpdateLastLogin фиксирует момент и IP последнего входа.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time, ip string) error
}

// SessionTokenStorage выполняет операции над сессионными токенами.
type SessionTokenStorage interface {
	// SaveSessionToken сохраняет новый сессионный токен.
	SaveSessionToken(ctx context.Context, token *models.SessionToken) error
	// SessionTokenByHash находит сессионный токен по его хэшу.
	SessionTokenByHash(ctx context.Context, hash string) (*models.SessionToken, error)
	// RevokeSessionToken пытается отозвать токен, если тот ещё активен.
	// Возвращает (true, nil), если токен был активен и отозван сейчас;
	// (false, nil), если уже был отозван; (false, ErrNotFound), если не найден.
	RevokeSessionToken(ctx context.Context, hash string) (bool, error)
	// RevokeAccountSessions отзывает все активные сессии аккаунта,
	// возвращает число отозванных.
	RevokeAccountSessions(ctx context.Context, accountID uuid.UUID) (int64, error)
	// DeleteExpiredSessions удаляет все просроченные токены.
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

// Storage задает контракт работы с БД.
type Storage interface {
	AccountStorage
	SessionTokenStorage
	Close()
}
